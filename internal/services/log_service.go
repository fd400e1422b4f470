package services

import (
	"context"
	"errors"
	"net/netip"
	"strings"

	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
)

const (
	msgLogNotFound       = "Запис журналу не знайдено"
	msgBlacklistNotFound = "Адресу в чорному списку не знайдено"
)

// LogService exposes the audit log, security events and the IP blacklist.
type LogService interface {
	List(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.LogEntry], error)
	Get(ctx context.Context, id int64) (*models.LogEntry, error)
	Detailed(ctx context.Context, f repository.ListFilter) (models.Page[models.LogEntry], error)
	Secure(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.SecureEntry], error)
	Blacklist(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.BlacklistEntry], error)

	// AddBlacklist blocks ip. callerIP is the address of the requesting
	// client; an administrator cannot block it.
	AddBlacklist(ctx context.Context, uid int64, callerIP, ip, details string) (int64, error)

	// DeleteBlacklist unblocks an entry.
	DeleteBlacklist(ctx context.Context, uid int64, id int64) error

	// IsBlacklisted reports whether ip is blocked. Used by the blacklist
	// middleware.
	IsBlacklisted(ctx context.Context, ip string) (bool, error)
}

type logService struct {
	repo repository.LogRepository
	log  *logger.Logger
}

// NewLogService creates a new instance of LogService.
func NewLogService(repo repository.LogRepository, log *logger.Logger) LogService {
	return &logService{repo: repo, log: log}
}

func (s *logService) List(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.LogEntry], error) {
	page, err := s.repo.List(ctx, f)
	if err != nil {
		return page, listError(s.log, "log", err)
	}
	return page, nil
}

func (s *logService) Get(ctx context.Context, id int64) (*models.LogEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query log entry", err, map[string]interface{}{"id": id})
		return nil, persistenceError(err)
	}
	if entry == nil {
		return nil, notFoundError(msgLogNotFound)
	}
	return entry, nil
}

func (s *logService) Detailed(ctx context.Context, f repository.ListFilter) (models.Page[models.LogEntry], error) {
	page, err := s.repo.Detailed(ctx, f)
	if err != nil {
		return page, listError(s.log, "detailed log", err)
	}
	return page, nil
}

func (s *logService) Secure(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.SecureEntry], error) {
	page, err := s.repo.Secure(ctx, f)
	if err != nil {
		return page, listError(s.log, "secure log", err)
	}
	return page, nil
}

func (s *logService) Blacklist(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.BlacklistEntry], error) {
	page, err := s.repo.Blacklist(ctx, f)
	if err != nil {
		return page, listError(s.log, "blacklist", err)
	}
	return page, nil
}

func (s *logService) AddBlacklist(ctx context.Context, uid int64, callerIP, ip, details string) (int64, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		s.log.Warn("Invalid blacklist address", map[string]interface{}{"ip": ip})
		return 0, validationError("Некоректна IP-адреса")
	}
	addr = addr.Unmap()

	if caller, err := netip.ParseAddr(callerIP); err == nil && caller.Unmap() == addr {
		s.log.Warn("Refused to blacklist own address", map[string]interface{}{"ip": addr.String(), "uid": uid})
		return 0, &Error{Kind: KindForbidden, Message: "Не можна заблокувати власну IP-адресу"}
	}

	id, err := s.repo.AddBlacklist(ctx, uid, addr.String(), strings.TrimSpace(details))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, validationError("IP-адреса " + addr.String() + " уже в чорному списку")
		}
		s.log.Error("Failed to add blacklist entry", err, map[string]interface{}{"ip": addr.String()})
		return 0, persistenceError(err)
	}

	s.log.Info("Address blacklisted", map[string]interface{}{"id": id, "ip": addr.String(), "uid": uid})
	return id, nil
}

func (s *logService) DeleteBlacklist(ctx context.Context, uid int64, id int64) error {
	found, err := s.repo.DeleteBlacklist(ctx, uid, id)
	if err != nil {
		s.log.Error("Failed to delete blacklist entry", err, map[string]interface{}{"id": id})
		return persistenceError(err)
	}
	if !found {
		return notFoundError(msgBlacklistNotFound)
	}

	s.log.Info("Blacklist entry removed", map[string]interface{}{"id": id, "uid": uid})
	return nil
}

func (s *logService) IsBlacklisted(ctx context.Context, ip string) (bool, error) {
	return s.repo.IsBlacklisted(ctx, ip)
}
