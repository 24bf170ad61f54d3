package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ListingHandlerTestSuite struct {
	handlerSuite
}

func TestListingHandlerSuite(t *testing.T) {
	suite.Run(t, new(ListingHandlerTestSuite))
}

func activeListing() *domain.Listing {
	return &domain.Listing{
		ID:         10,
		DocumentID: 20,
		OwnerID:    seller.ID,
		Type:       domain.ListingTypeSell,
		Price:      decimal.RequireFromString("10.00"),
		Quantity:   3,
		Status:     domain.ListingStatusActive,
		Version:    4,
	}
}

func (s *ListingHandlerTestSuite) TestIndexIsPublic() {
	s.listingService.EXPECT().
		List(gomock.Any(), domain.Actor{}, repoargs.ListingFilter{
			CategoryID: 2,
			Type:       domain.ListingTypeSell,
			Title:      "go",
			Page:       repoargs.Page{Number: 2},
		}).
		Return(repoargs.NewPageResult([]domain.Listing{*activeListing()}, 21, repoargs.Page{Number: 2}), nil)

	res := s.do(http.MethodGet, RouteGroup+ListingsRoute+"?categoryId=2&type=Sell&title=go&page=2", nil, domain.Actor{})
	s.Require().Equal(http.StatusOK, res.StatusCode)

	var page PageResponse[ListingResponse]
	s.Require().NoError(testutils.DecodeJSON(res, &page))
	s.Equal(int64(21), page.Total)
	s.Equal(2, page.Page)
	s.Require().Len(page.Items, 1)
	s.Equal([]int64{}, page.Items[0].DesiredDocumentIDs)

	p := s.problem(s.do(http.MethodGet, RouteGroup+ListingsRoute+"?type=Gift", nil, domain.Actor{}), http.StatusBadRequest)
	s.Contains(p.Errors, "type")
}

func (s *ListingHandlerTestSuite) TestIndexWithToken() {
	s.listingService.EXPECT().
		List(gomock.Any(), seller, repoargs.ListingFilter{OwnerID: seller.ID}).
		Return(repoargs.NewPageResult([]domain.Listing{*activeListing()}, 1, repoargs.Page{}), nil)

	res := s.do(http.MethodGet, RouteGroup+ListingsRoute+"?ownerId=1", nil, seller)
	defer s.closeBody(res)
	s.Equal(http.StatusOK, res.StatusCode)

	s.Run("revoked token is rejected", func() {
		token, claims := s.tokenFor(buyer)
		s.Require().NoError(s.revocations.Revoke(s.T().Context(), claims.ID, claims.ExpiresAt.Time))
		revoked, err := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + ListingsRoute,
		}, testutils.WithBearer(token))
		s.Require().NoError(err)
		s.Equal("token_revoked", s.problem(revoked, http.StatusUnauthorized).Code)
	})
}

func (s *ListingHandlerTestSuite) TestCreate() {
	s.listingService.EXPECT().
		Create(gomock.Any(), seller, service.CreateListingArgs{
			DocumentID: 20,
			Type:       domain.ListingTypeSell,
			Price:      decimal.RequireFromString("10.00"),
			Quantity:   3,
		}).
		DoAndReturn(func(_ any, _ domain.Actor, args service.CreateListingArgs) (*domain.Listing, error) {
			l := activeListing()
			l.Price = args.Price
			return l, nil
		})

	body := `{"documentId":20,"type":"Sell","price":"10.00","quantity":3}`
	res := s.do(http.MethodPost, RouteGroup+ListingsRoute, stringsReader(body), seller)
	s.Require().Equal(http.StatusCreated, res.StatusCode)
	s.Equal(`W/"4"`, res.Header.Get("ETag"))

	var listing ListingResponse
	s.Require().NoError(testutils.DecodeJSON(res, &listing))
	s.Equal(domain.ListingStatusActive, listing.Status)
	s.Equal("10", listing.Price.String())
}

func (s *ListingHandlerTestSuite) TestCreateRejectsDomainViolation() {
	verr := domain.NewValidationError("price", "must be greater than 0 for Sell listings")
	s.listingService.EXPECT().Create(gomock.Any(), seller, gomock.Any()).Return(nil, verr)

	body := `{"documentId":20,"type":"Sell","price":0,"quantity":1}`
	p := s.problem(s.do(http.MethodPost, RouteGroup+ListingsRoute, stringsReader(body), seller), http.StatusBadRequest)
	s.Equal("validation_failed", p.Code)
	s.Equal([]string{"must be greater than 0 for Sell listings"}, p.Errors["price"])
}

func (s *ListingHandlerTestSuite) TestUpdateStaleVersion() {
	fresh := activeListing()
	fresh.Version = 5
	fresh.Quantity = 1

	s.listingService.EXPECT().
		Update(gomock.Any(), seller, int64(10), service.UpdateListingArgs{
			Price:    decimal.RequireFromString("12.50"),
			Quantity: 1,
			Version:  4,
		}).
		Return(fresh, nil)
	s.listingService.EXPECT().
		Update(gomock.Any(), seller, int64(10), service.UpdateListingArgs{
			Price:    decimal.RequireFromString("11.00"),
			Quantity: 2,
			Version:  4,
		}).
		Return(nil, fmt.Errorf("listing 10: %w", domain.ErrConcurrency))

	res := s.do(http.MethodPut, RouteGroup+"/listings/10",
		stringsReader(`{"price":"12.50","quantity":1,"version":4}`), seller)
	s.Require().Equal(http.StatusOK, res.StatusCode)
	s.Equal(`W/"5"`, res.Header.Get("ETag"))
	s.closeBody(res)

	res = s.do(http.MethodPut, RouteGroup+"/listings/10",
		stringsReader(`{"price":"11.00","quantity":2,"version":4}`), seller)
	p := s.problem(res, http.StatusConflict)
	s.Equal("concurrency", p.Code)

	res = s.do(http.MethodPut, RouteGroup+"/listings/10", stringsReader(`{"price":"11.00","quantity":2}`), seller)
	p = s.problem(res, http.StatusBadRequest)
	s.Contains(p.Errors, "version")
}

func (s *ListingHandlerTestSuite) TestReject() {
	rejected := activeListing()
	rejected.Status = domain.ListingStatusRejected
	rejected.RejectReason = "counterfeit"

	s.listingService.EXPECT().Reject(gomock.Any(), admin, int64(10), "counterfeit").Return(rejected, nil)

	params := RejectParams{Reason: "counterfeit"}

	p := s.problem(
		s.do(http.MethodPost, RouteGroup+"/listings/10/reject", testutils.JSONBody(params), seller),
		http.StatusForbidden,
	)
	s.Equal("forbidden", p.Code)

	res := s.do(http.MethodPost, RouteGroup+"/listings/10/reject", testutils.JSONBody(params), admin)
	s.Require().Equal(http.StatusOK, res.StatusCode)
	var listing ListingResponse
	s.Require().NoError(testutils.DecodeJSON(res, &listing))
	s.Equal(domain.ListingStatusRejected, listing.Status)
	s.Equal("counterfeit", listing.RejectReason)
}

func (s *ListingHandlerTestSuite) TestCancel() {
	cancelled := activeListing()
	cancelled.Status = domain.ListingStatusCancelled

	s.listingService.EXPECT().Cancel(gomock.Any(), seller, int64(10)).Return(cancelled, nil)
	s.listingService.EXPECT().Cancel(gomock.Any(), buyer, int64(10)).Return(nil, domain.ErrForbidden)

	res := s.do(http.MethodDelete, RouteGroup+"/listings/10", nil, seller)
	defer s.closeBody(res)
	s.Equal(http.StatusOK, res.StatusCode)

	s.problem(s.do(http.MethodDelete, RouteGroup+"/listings/10", nil, buyer), http.StatusForbidden)
}
