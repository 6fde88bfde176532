package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/kudoshq/kudos/internal/config"
	"github.com/kudoshq/kudos/internal/rest"
	"github.com/kudoshq/kudos/pkg/user"
)

type authRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type tokenResponse struct {
	AccessToken string    `json:"accessToken"`
	Expiry      time.Time `json:"expiry"`
}

// Auth handles the OpenID Connect login flow against the configured
// identity provider and keeps the issued tokens per user.
type Auth struct {
	db          *sql.DB
	userService user.Service
	oauthConfig *oauth2.Config
}

func NewAuth(db *sql.DB, userService user.Service, cfg config.Application) *Auth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Auth.ClientId,
		ClientSecret: cfg.Auth.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  strings.TrimRight(cfg.Auth.IssuerUrl, "/") + "/protocol/openid-connect/auth",
			TokenURL: strings.TrimRight(cfg.Auth.IssuerUrl, "/") + "/protocol/openid-connect/token",
		},
		RedirectURL: cfg.Host + "/api/auth/callback",
		Scopes:      []string{"openid", "profile", "email"},
	}
	return &Auth{db: db, userService: userService, oauthConfig: oauthConfig}
}

// Login starts the authorization code flow and returns the provider URL the
// client should redirect to.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	// store nonce to verify the callback belongs to this login attempt
	if _, err := a.db.ExecContext(r.Context(), "INSERT INTO identity_auth (nonce) VALUES (?)", stateNonce); err != nil {
		log.Errorf("failed to store auth nonce: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to start authentication")
		return
	}

	log.Tracef("Redirecting to identity provider with nonce: %s", stateNonce)
	u := a.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline)
	rest.WriteJSON(w, http.StatusOK, authRedirect{RedirectUrl: u})
}

func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	var nonceId int
	err := a.db.QueryRowContext(r.Context(), "SELECT id FROM identity_auth WHERE nonce = ?", nonce).Scan(&nonceId)
	if errors.Is(err, sql.ErrNoRows) {
		rest.WriteError(w, http.StatusBadRequest, "Unknown login attempt")
		return
	} else if err != nil {
		log.Errorf("failed to look up auth nonce: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to handle authentication")
		return
	}

	token, err := a.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	claims, err := identityClaims(token)
	if err != nil {
		log.Errorf("unable to read identity claims: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	authenticated, err := a.userService.EnsureUser(r.Context(), user.User{
		Subject:   claims.Subject,
		Email:     claims.Email,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
	})
	if err != nil {
		log.Errorf("unable to provision user %s: %v", claims.Subject, err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	// A user logging in again replaces any previous token row.
	if _, err := a.db.ExecContext(r.Context(), "DELETE FROM identity_auth WHERE user_id = ?", authenticated.Id); err != nil {
		log.Errorf("failed to delete old auth row for user %d: %v", authenticated.Id, err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	if _, err := a.db.ExecContext(r.Context(),
		"UPDATE identity_auth SET user_id = ?, access_token = ?, refresh_token = ?, expiry = ? WHERE id = ?",
		authenticated.Id, token.AccessToken, token.RefreshToken, token.Expiry.Unix(), nonceId); err != nil {
		log.Errorf("unable to store auth token for user %d: %v", authenticated.Id, err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	log.Debugf("Successfully authenticated user %d", authenticated.Id)
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

// Refresh exchanges the stored refresh token for a fresh access token.
func (a *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	stored, err := a.getToken(r.Context(), userId)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}
	if stored == nil || stored.RefreshToken == "" {
		rest.WriteError(w, http.StatusUnauthorized, "No refresh token available")
		return
	}

	refreshed, err := a.oauthConfig.TokenSource(r.Context(), stored).Token()
	if err != nil {
		log.Errorf("unable to refresh token for user %d: %v", userId, err)
		rest.WriteError(w, http.StatusUnauthorized, "Token refresh rejected")
		return
	}

	if refreshed.AccessToken != stored.AccessToken {
		if _, err := a.db.ExecContext(r.Context(),
			"UPDATE identity_auth SET access_token = ?, refresh_token = ?, expiry = ? WHERE user_id = ?",
			refreshed.AccessToken, refreshed.RefreshToken, refreshed.Expiry.Unix(), userId); err != nil {
			log.Errorf("unable to store refreshed token for user %d: %v", userId, err)
			rest.WriteError(w, http.StatusInternalServerError, "Failed to refresh token")
			return
		}
	}
	rest.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: refreshed.AccessToken, Expiry: refreshed.Expiry})
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if _, err := a.db.ExecContext(r.Context(), "DELETE FROM identity_auth WHERE user_id = ?", userId); err != nil {
		log.Errorf("failed to delete auth row for user %d: %v", userId, err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Auth) getToken(ctx context.Context, userId int) (*oauth2.Token, error) {
	var token oauth2.Token
	var expiryTimestamp int64
	err := a.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, expiry FROM identity_auth WHERE user_id = ?", userId).
		Scan(&token.AccessToken, &token.RefreshToken, &expiryTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to retrieve auth token: %w", err)
	}
	token.Expiry = time.Unix(expiryTimestamp, 0)
	return &token, nil
}

// Claims are the OpenID Connect identity claims carried by the ID token.
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	jwt.StandardClaims
}

func identityClaims(token *oauth2.Token) (*Claims, error) {
	rawIdToken, ok := token.Extra("id_token").(string)
	if !ok || rawIdToken == "" {
		return nil, errors.New("token response carries no id_token")
	}
	claims := &Claims{}
	// The ID token arrived over the code exchange's TLS channel, so its
	// signature does not need a second verification here.
	if _, _, err := new(jwt.Parser).ParseUnverified(rawIdToken, claims); err != nil {
		return nil, fmt.Errorf("unable to parse id_token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("id_token carries no subject")
	}
	return claims, nil
}
