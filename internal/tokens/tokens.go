package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
)

// Propósitos de token de uso único
const (
	PurposeConfirmEmail  = "confirm"
	PurposeResetPassword = "reset"
)

var ErrTokenInvalid = errors.New("invalid or expired token")

func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
}

// Store guarda tokens de uso único (confirmação de e-mail, reset de
// senha) no Redis com TTL. O valor é o ID do usuário dono do token.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Issue(
	ctx context.Context,
	purpose string,
	userID uint,
	ttl time.Duration,
) (string, error) {

	token := uuid.NewString()
	if err := s.rdb.Set(ctx, tokenKey(purpose, token), uint64(userID), ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume valida e invalida o token numa única operação
func (s *Store) Consume(
	ctx context.Context,
	purpose string,
	token string,
) (uint, error) {

	val, err := s.rdb.GetDel(ctx, tokenKey(purpose, token)).Uint64()
	if err == redis.Nil {
		return 0, ErrTokenInvalid
	}
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

func tokenKey(purpose, token string) string {
	return fmt.Sprintf("token:%s:%s", purpose, token)
}
