package common

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/novadent/novadent/internal/common/constants"
	inErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/log"
)

type jwtToken struct{}

func AttachJwtTokenToContext(c context.Context, token *jwt.Token) context.Context {
	return context.WithValue(c, jwtToken{}, token)
}

func JwtTokenFromContext(c context.Context) *jwt.Token {
	token, ok := c.Value(jwtToken{}).(*jwt.Token)
	if !ok {
		return nil
	}
	return token
}

func UserIdFromJwtToken(c context.Context) (uuid.UUID, error) {
	token := JwtTokenFromContext(c)
	if token == nil {
		return uuid.Nil, inErrors.ErrTokenInvalid
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed getting subject from claims with error=%w", err)
	}
	if subject == "" {
		return uuid.Nil, inErrors.ErrEmptySubject
	}
	userId, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing subject=%s with error=%w", subject, err)
	}
	return userId, nil
}

func VerifyToken(c context.Context, token string, secretKey string) (*jwt.Token, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "VerifyToken").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "parsing claims").Logger()
	jwtToken, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithAudience(constants.AUDIENCE_BUYER),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing with claims with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("parsed claims")

	logger = logger.With().Str(log.KEY_PROCESS, "validating token").Logger()
	if !jwtToken.Valid {
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return nil, inErrors.ErrTokenInvalid
	}
	logger.Info().Msg("validated token")

	return jwtToken, nil
}
