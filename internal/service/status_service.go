package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

// StatusCatalogService отдает каталог статусов. После Load каталог обслуживается из памяти.
type StatusCatalogService struct {
	statusRepo StatusRepository

	mu       sync.RWMutex
	byDomain map[domain.StatusDomain][]domain.Status
}

func NewStatusCatalogService(u uow.UOW) (*StatusCatalogService, error) {
	statusRepo, err := repo[StatusRepository](u, repoargs.StatusRepoName)
	if err != nil {
		return nil, err
	}
	return &StatusCatalogService{statusRepo: statusRepo}, nil
}

// Load читает каталог и сверяет его с реестром статусов домена. Если в каталоге нет хотя бы одного
// зарегистрированного кода, возвращает ошибку: приложение не должно стартовать с рассинхронизированным каталогом.
func (s *StatusCatalogService) Load(ctx context.Context) error {
	all, err := s.statusRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("loading status catalog: %w", err)
	}

	byDomain := make(map[domain.StatusDomain][]domain.Status)
	for _, st := range all {
		byDomain[st.Domain] = append(byDomain[st.Domain], st)
	}

	var missing []string
	for _, d := range domain.StatusDomains() {
		for _, code := range domain.RegisteredStatusCodes(d) {
			if !slices.ContainsFunc(byDomain[d], func(st domain.Status) bool { return st.Code == code }) {
				missing = append(missing, string(d)+"/"+code)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("status catalog is missing registered codes: %s", strings.Join(missing, ", "))
	}

	for d := range byDomain {
		slices.SortStableFunc(byDomain[d], func(a, b domain.Status) int { return a.SortOrder - b.SortOrder })
	}

	s.mu.Lock()
	s.byDomain = byDomain
	s.mu.Unlock()
	return nil
}

// GetByDomain возвращает статусы домена в порядке sort_order.
func (s *StatusCatalogService) GetByDomain(ctx context.Context, d domain.StatusDomain) ([]domain.Status, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: unknown status domain %q", domain.ErrRecordNotFound, d)
	}
	if cached, ok := s.cached(d); ok {
		return cached, nil
	}
	return s.statusRepo.FindByDomain(ctx, d) //nolint:wrapcheck
}

func (s *StatusCatalogService) GetByDomainAndCode(
	ctx context.Context,
	d domain.StatusDomain,
	code string,
) (*domain.Status, error) {
	if cached, ok := s.cached(d); ok {
		idx := slices.IndexFunc(cached, func(st domain.Status) bool { return st.Code == code })
		if idx < 0 {
			return nil, fmt.Errorf("%w: status %s/%s", domain.ErrRecordNotFound, d, code)
		}
		return &cached[idx], nil
	}
	return s.statusRepo.FindByDomainAndCode(ctx, d, code) //nolint:wrapcheck
}

func (s *StatusCatalogService) cached(d domain.StatusDomain) ([]domain.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.byDomain == nil {
		return nil, false
	}
	return slices.Clone(s.byDomain[d]), true
}
