package service

import (
	"testing"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type StatusCatalogServiceTestSuite struct {
	serviceSuite
	statusService *StatusCatalogService
}

func TestStatusCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(StatusCatalogServiceTestSuite))
}

func (s *StatusCatalogServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	statusService, err := NewStatusCatalogService(s.mockUOW)
	s.Require().NoError(err)
	s.statusService = statusService
}

// fullCatalog каталог со всеми зарегистрированными кодами в обратном порядке sort_order.
func fullCatalog() []domain.Status {
	var res []domain.Status
	for _, d := range domain.StatusDomains() {
		codes := domain.RegisteredStatusCodes(d)
		for i, code := range codes {
			res = append(res, domain.Status{Domain: d, Code: code, Name: code, SortOrder: len(codes) - i})
		}
	}
	return res
}

func (s *StatusCatalogServiceTestSuite) TestLoad() {
	s.Run("missing code fails", func() {
		catalog := fullCatalog()
		s.statusRepo.EXPECT().All(gomock.Any()).Return(catalog[1:], nil)

		err := s.statusService.Load(s.T().Context())
		s.Require().Error(err)
		s.Contains(err.Error(), string(catalog[0].Domain)+"/"+catalog[0].Code)
	})

	s.Run("served from memory after load", func() {
		s.statusRepo.EXPECT().All(gomock.Any()).Return(fullCatalog(), nil)
		s.statusRepo.EXPECT().FindByDomain(gomock.Any(), gomock.Any()).Times(0)

		s.Require().NoError(s.statusService.Load(s.T().Context()))

		statuses, err := s.statusService.GetByDomain(s.T().Context(), domain.StatusDomainOrder)
		s.Require().NoError(err)
		codes := domain.RegisteredStatusCodes(domain.StatusDomainOrder)
		s.Require().Len(statuses, len(codes))
		// отсортировано по sort_order, то есть в обратном порядке реестра.
		s.Equal(codes[len(codes)-1], statuses[0].Code)

		st, err := s.statusService.GetByDomainAndCode(
			s.T().Context(), domain.StatusDomainOrder, string(domain.OrderStatusShipped))
		s.Require().NoError(err)
		s.Equal(string(domain.OrderStatusShipped), st.Code)

		_, err = s.statusService.GetByDomainAndCode(s.T().Context(), domain.StatusDomainOrder, "Lost")
		s.Require().ErrorIs(err, domain.ErrRecordNotFound)
	})
}

func (s *StatusCatalogServiceTestSuite) TestUnknownDomain() {
	_, err := s.statusService.GetByDomain(s.T().Context(), domain.StatusDomain("Invoice"))
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
