package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MehdiBenameur/skyhire/internal/events"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/repository"
)

const (
	lockKeyPrefix   = "skyhire-lock-user-"
	lockDuration    = 10 * time.Minute
	maxFailedLogins = 10
)

type UserService struct {
	userRepo       *repository.UserAuthRepository
	redisRepo      *repository.RedisRepo
	eventPublisher events.Publisher

	mu           sync.Mutex
	failedLogins map[string]*failedLoginAttempt
}

type failedLoginAttempt struct {
	failedAt     int64
	failedNumber int
}

func NewUserService(userRepo *repository.UserAuthRepository, redisRepo *repository.RedisRepo, eventPublisher events.Publisher) *UserService {
	return &UserService{
		userRepo:       userRepo,
		redisRepo:      redisRepo,
		eventPublisher: eventPublisher,
		failedLogins:   make(map[string]*failedLoginAttempt),
	}
}

func (us *UserService) Register(ctx context.Context, username, email, password, role string) (*models.UserAuth, error) {
	if role == "" {
		role = models.RoleCandidate
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("unknown role: %s", role)
	}

	if existing, err := us.userRepo.FindByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("error checking username: %s", err)
	} else if existing != nil {
		return nil, fmt.Errorf("username already taken")
	}
	if existing, err := us.userRepo.FindByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("error checking email: %s", err)
	} else if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %s", err)
	}

	user := &models.UserAuth{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	created, err := us.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %s", err)
	}
	log.Printf("New auth user created: %s", created.Username)

	if us.eventPublisher != nil {
		if err := us.eventPublisher.PublishUserRegistered(ctx, created.ID.Hex(), created.Username, created.Role); err != nil {
			log.Printf("Warning: Failed to publish user registered event: %v", err)
		}
	}

	return created, nil
}

func (us *UserService) Login(ctx context.Context, username, password string) (*models.UserAuth, error) {
	if us.redisRepo.GetInt(ctx, lockKeyPrefix+username) != 0 {
		return nil, fmt.Errorf("user is locked")
	}

	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error finding username: %s", err)
	}
	if user == nil {
		return nil, fmt.Errorf("unknown username")
	}

	loginTime := time.Now().UnixMilli()
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		us.recordFailedLogin(ctx, username, loginTime)
		return nil, fmt.Errorf("wrong password")
	}

	if !user.IsActive {
		return nil, fmt.Errorf("user is not activated")
	}

	us.mu.Lock()
	delete(us.failedLogins, username)
	us.mu.Unlock()

	return user, nil
}

func (us *UserService) recordFailedLogin(ctx context.Context, username string, loginTime int64) {
	us.mu.Lock()
	attempt := us.failedLogins[username]
	if attempt == nil {
		attempt = &failedLoginAttempt{}
		us.failedLogins[username] = attempt
	}
	lastFailedAt := attempt.failedAt
	attempt.failedAt = loginTime
	attempt.failedNumber++
	failedNums := attempt.failedNumber
	us.mu.Unlock()

	// Two failures inside a second looks scripted; lock immediately.
	if loginTime-lastFailedAt < 1000 {
		log.Printf("WARN: Suspicious activity detected for user: %s. Instant lock activated", username)
		us.redisRepo.SaveInt(ctx, lockKeyPrefix+username, loginTime, lockDuration)
		return
	}
	if failedNums > maxFailedLogins {
		log.Printf("User %s login failed %v times. Locked for %v", username, failedNums, lockDuration)
		us.redisRepo.SaveInt(ctx, lockKeyPrefix+username, loginTime, lockDuration)
	}
}
