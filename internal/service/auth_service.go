package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

const (
	codeDigits         = 6
	DefaultCodeTTL     = 5 * time.Minute
	maxTrackedLimiters = 10000
)

type RegisterInput struct {
	FirstName  string
	LastName   string
	NationalID string
	Phone      string
}

// AuthResult — ответ успешного подтверждения телефона.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type AuthOptions struct {
	CodeTTL time.Duration
	// Ограничение на отправку и проверку кодов для одного номера.
	PerMinute float64
	Burst     int
	// Источник случайности для кодов; по умолчанию crypto/rand.
	Random     io.Reader
	BcryptCost int
}

// AuthService: регистрация и вход по коду из SMS.
type AuthService struct {
	db      *gorm.DB
	repos   *repository.Repositories
	sms     SmsSender
	tokens  *TokenManager
	random  io.Reader
	cost    int
	codeTTL time.Duration
	limits  *phoneLimiter
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	repos *repository.Repositories,
	sms SmsSender,
	tokens *TokenManager,
	log zerolog.Logger,
	opts AuthOptions,
) *AuthService {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	if opts.PerMinute <= 0 {
		opts.PerMinute = 3
	}
	if opts.Burst <= 0 {
		opts.Burst = max(1, int(opts.PerMinute))
	}
	if opts.Random == nil {
		opts.Random = rand.Reader
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		db:      db,
		repos:   repos,
		sms:     sms,
		tokens:  tokens,
		random:  opts.Random,
		cost:    opts.BcryptCost,
		codeTTL: opts.CodeTTL,
		limits:  newPhoneLimiter(rate.Limit(opts.PerMinute/60), opts.Burst),
		log:     log.With().Str("component", "auth").Logger(),
		now:     time.Now,
	}
}

// SendVerificationCode заменяет прежние коды номера новым и отправляет его по SMS.
func (s *AuthService) SendVerificationCode(ctx context.Context, phone string) error {
	phone = repository.NormalizePhone(phone)
	if phone == "" {
		return invalidArgument("phone is required")
	}
	if !s.limits.Allow("send:"+phone, s.now()) {
		return ErrRateLimited
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		verifications := s.repos.Verifications.WithTx(tx)
		if err := verifications.DeleteByPhone(ctx, phone); err != nil {
			return err
		}
		return verifications.Create(ctx, &model.SmsVerification{
			Phone:     phone,
			CodeHash:  string(hash),
			ExpiresAt: s.now().Add(s.codeTTL),
		})
	})
	if err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	if err := s.sms.Send(ctx, phone, "Your verification code: "+code); err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("send verification code")
		return fmt.Errorf("%w: %v", ErrSmsFailed, err)
	}
	return nil
}

// Register создаёт пациента и отправляет код подтверждения.
// Если SMS не ушло, пользователь остаётся созданным, а ошибка оборачивает ErrSmsFailed.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repos.Users.FindByPhoneOrNationalID(ctx, in.Phone, in.NationalID)
	switch {
	case err == nil && existing != nil:
		return nil, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("check user: %w", err)
	}

	u := &model.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		NationalID: in.NationalID,
		Phone:      in.Phone,
		Role:       model.RoleUser,
	}
	if err := s.createUser(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	if err := s.SendVerificationCode(ctx, u.Phone); err != nil {
		return u, err
	}
	return u, nil
}

// RegisterAdmin делает администратором существующего пользователя с тем же
// телефоном или национальным номером, иначе создаёт нового.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (*model.User, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repos.Users.FindByPhoneOrNationalID(ctx, in.Phone, in.NationalID)
	switch {
	case err == nil && existing != nil:
		if err := s.repos.Users.SetRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
		existing.Role = model.RoleAdmin
		s.log.Info().Str("user_id", existing.ID.String()).Msg("user promoted to admin")
		return existing, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("check user: %w", err)
	}

	u := &model.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		NationalID: in.NationalID,
		Phone:      in.Phone,
		Role:       model.RoleAdmin,
	}
	if err := s.createUser(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID.String()).Msg("admin registered")
	if err := s.SendVerificationCode(ctx, u.Phone); err != nil {
		return u, err
	}
	return u, nil
}

func (s *AuthService) createUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Users.WithTx(tx).Create(ctx, u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeUserRegistered, &u.ID, nil,
			map[string]any{"role": u.Role})
	})
}

// VerifyPhone проверяет код, отмечает телефон подтверждённым и выдаёт токен.
func (s *AuthService) VerifyPhone(ctx context.Context, phone, code string) (*AuthResult, error) {
	phone = repository.NormalizePhone(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, invalidArgument("phone and code are required")
	}
	if !s.limits.Allow("verify:"+phone, s.now()) {
		return nil, ErrRateLimited
	}

	var u *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		verifications := s.repos.Verifications.WithTx(tx)

		v, err := verifications.FindLatestUsable(ctx, phone, s.now())
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)) != nil {
			return ErrInvalidCode
		}

		users := s.repos.Users.WithTx(tx)
		u, err = users.FindByPhone(ctx, phone)
		if err != nil {
			return notFound(err, "user")
		}
		if err := verifications.MarkUsed(ctx, v.ID); err != nil {
			return err
		}
		if !u.IsPhoneVerified {
			if err := users.MarkPhoneVerified(ctx, u.ID); err != nil {
				return err
			}
			u.IsPhoneVerified = true
			return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypePhoneVerified, &u.ID, nil, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Login отправляет новый код подтверждённому пользователю.
// Токен выдаётся только после VerifyPhone.
func (s *AuthService) Login(ctx context.Context, phone string) error {
	u, err := s.repos.Users.FindByPhone(ctx, phone)
	if err != nil {
		return notFound(err, "user")
	}
	if !u.IsPhoneVerified {
		return ErrPhoneNotVerified
	}
	return s.SendVerificationCode(ctx, u.Phone)
}

// newCode: равномерно распределённый шестизначный код без ведущего нуля.
func (s *AuthService) newCode() (string, error) {
	lo := int64(1)
	for i := 1; i < codeDigits; i++ {
		lo *= 10
	}
	n, err := rand.Int(s.random, big.NewInt(9*lo))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+lo), nil
}

func (in RegisterInput) normalized() RegisterInput {
	return RegisterInput{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		NationalID: strings.TrimSpace(in.NationalID),
		Phone:      repository.NormalizePhone(in.Phone),
	}
}

func (in RegisterInput) validate() error {
	switch {
	case in.FirstName == "" || in.LastName == "":
		return invalidArgument("first and last name are required")
	case in.NationalID == "":
		return invalidArgument("national id is required")
	case in.Phone == "":
		return invalidArgument("phone is required")
	}
	return nil
}

// phoneLimiter: token bucket на ключ (номер телефона).
type phoneLimiter struct {
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newPhoneLimiter(every rate.Limit, burst int) *phoneLimiter {
	return &phoneLimiter{every: every, burst: burst, limiters: make(map[string]*limiterEntry)}
}

func (l *phoneLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedLimiters {
			l.prune(now)
		}
		e = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// prune выбрасывает ключи, не встречавшиеся дольше 10 минут.
func (l *phoneLimiter) prune(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > 10*time.Minute {
			delete(l.limiters, k)
		}
	}
}
