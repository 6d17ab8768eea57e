package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwk"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/models"
)

const googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

// ErrUnknownGoogleAccount is returned when the verified Google email has no
// provisioned account. Recruiters are created by admins, never on first login.
var ErrUnknownGoogleAccount = errors.New("no account for this Google email")

// GoogleAuthService verifies Google ID tokens and resolves them to users.
type GoogleAuthService struct {
	DB *mongo.Client
}

func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

// GoogleIdentity is the subset of ID-token claims the backend uses.
type GoogleIdentity struct {
	Email    string
	Subject  string
	FullName string
}

// VerifyIDToken checks the token's signature against Google's JWKS and
// extracts the identity claims.
func (s *GoogleAuthService) VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	// Parse the JWT header to get the signing key id
	parts := strings.Split(idToken, ".")
	if len(parts) < 2 {
		return nil, errors.New("invalid token format")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("invalid JWT header")
	}

	var header struct {
		Kid string `json:"kid"`
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, errors.New("invalid JWT header JSON")
	}

	jwkSet, err := jwk.Fetch(ctx, googleCertsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google public keys: %w", err)
	}

	key, found := jwkSet.LookupKeyID(header.Kid)
	if !found {
		return nil, errors.New("Google public key not found")
	}

	var pubkey interface{}
	if err := key.Raw(&pubkey); err != nil {
		return nil, fmt.Errorf("failed to parse Google public key: %w", err)
	}

	parsedToken, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != header.Alg {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return pubkey, nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, errors.New("invalid or expired Google token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}

	email, _ := claims["email"].(string)
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if email == "" || sub == "" {
		return nil, errors.New("missing email or sub in token")
	}

	return &GoogleIdentity{Email: email, Subject: sub, FullName: name}, nil
}

// ResolveUser maps a verified Google identity to a provisioned user, linking
// the Google id on first use.
func (s *GoogleAuthService) ResolveUser(ctx context.Context, identity *GoogleIdentity) (*models.User, error) {
	collection := config.GetCollection(s.DB, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"googleId": identity.Subject}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	err = collection.FindOne(ctx, bson.M{"email": identity.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUnknownGoogleAccount
	}
	if err != nil {
		return nil, err
	}

	// Link the Google id to the provisioned account
	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"googleId":  identity.Subject,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return nil, err
	}
	user.GoogleID = identity.Subject

	return &user, nil
}
