package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"snaptika-api/config"
)

// EmailService sends account verification codes. Codes live in memory with a
// short expiry; losing them on restart only means the user requests another.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
	logger *zap.Logger

	verificationCodes map[string]verificationCode
	mutex             sync.RWMutex
}

type verificationCode struct {
	Code      string
	ExpiresAt time.Time
	Used      bool
}

func NewEmailService(cfg *config.Config, logger *zap.Logger) *EmailService {
	service := &EmailService{
		config:            cfg,
		dialer:            gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		logger:            logger.Named("email"),
		verificationCodes: make(map[string]verificationCode),
	}

	go service.cleanupExpiredCodes()

	return service
}

func (es *EmailService) generateVerificationCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}
	return string(code)
}

// SendVerificationEmail mails a fresh (or still-valid existing) code to the
// address and returns it.
func (es *EmailService) SendVerificationEmail(email, name string) (string, error) {
	es.mutex.RLock()
	existing, exists := es.verificationCodes[email]
	es.mutex.RUnlock()

	var code string
	if exists && !existing.Used && time.Now().Before(existing.ExpiresAt) {
		code = existing.Code
	} else {
		code = es.generateVerificationCode()
		es.mutex.Lock()
		es.verificationCodes[email] = verificationCode{
			Code:      code,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		es.mutex.Unlock()
	}

	message := gomail.NewMessage()
	message.SetAddressHeader("From", es.config.FromEmail, es.config.FromName)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Verify your Snaptika account")
	message.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour Snaptika verification code is: %s\n\nThe code expires in 10 minutes.\n", name, code))

	if err := es.dialer.DialAndSend(message); err != nil {
		es.logger.Warn("Failed to send verification email", zap.String("email", email), zap.Error(err))
		return "", err
	}
	return code, nil
}

// VerifyCode checks and consumes a verification code for an address.
func (es *EmailService) VerifyCode(email, code string) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	stored, exists := es.verificationCodes[email]
	if !exists || stored.Used || time.Now().After(stored.ExpiresAt) || stored.Code != code {
		return false
	}

	stored.Used = true
	es.verificationCodes[email] = stored
	return true
}

func (es *EmailService) cleanupExpiredCodes() {
	ticker := time.NewTicker(time.Minute * 10)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		es.mutex.Lock()
		for email, stored := range es.verificationCodes {
			if stored.Used || now.After(stored.ExpiresAt) {
				delete(es.verificationCodes, email)
			}
		}
		es.mutex.Unlock()
	}
}
