package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ReviewHandlerTestSuite struct {
	handlerSuite
}

func TestReviewHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReviewHandlerTestSuite))
}

func (s *ReviewHandlerTestSuite) TestCreate() {
	comment := gofakeit.Phrase()
	s.reviewService.EXPECT().
		Create(gomock.Any(), buyer, service.CreateReviewArgs{OrderID: 100, Rating: 5, Comment: comment}).
		Return(&domain.Review{ID: 1, OrderID: 100, ReviewerID: buyer.ID, SellerID: seller.ID, Rating: 5}, nil)
	s.reviewService.EXPECT().
		Create(gomock.Any(), buyer, service.CreateReviewArgs{OrderID: 100, Rating: 4}).
		Return(nil, domain.ErrConflict)

	res := s.do(http.MethodPost, RouteGroup+ReviewsRoute,
		testutils.JSONBody(CreateReviewParams{OrderID: 100, Rating: 5, Comment: comment}), buyer)
	s.Require().Equal(http.StatusCreated, res.StatusCode)
	var review ReviewResponse
	s.Require().NoError(testutils.DecodeJSON(res, &review))
	s.Equal(seller.ID, review.SellerID)
	s.Equal([]EvidenceResponse{}, review.Evidence)

	res = s.do(http.MethodPost, RouteGroup+ReviewsRoute,
		testutils.JSONBody(CreateReviewParams{OrderID: 100, Rating: 4}), buyer)
	p := s.problem(res, http.StatusConflict)
	s.Equal("conflict", p.Code)

	res = s.do(http.MethodPost, RouteGroup+ReviewsRoute,
		testutils.JSONBody(CreateReviewParams{OrderID: 100, Rating: 6}), buyer)
	p = s.problem(res, http.StatusBadRequest)
	s.Contains(p.Errors, "rating")
}

func (s *ReviewHandlerTestSuite) TestIndexRequiresSeller() {
	p := s.problem(s.do(http.MethodGet, RouteGroup+ReviewsRoute, nil, domain.Actor{}), http.StatusBadRequest)
	s.Contains(p.Errors, "sellerId")
}

func (s *ReviewHandlerTestSuite) TestAddEvidence() {
	content := []byte(gofakeit.LetterN(512))

	s.reviewService.EXPECT().
		AddEvidence(gomock.Any(), buyer, int64(1), gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_ domain.Actor,
			reviewID int64,
			args service.UploadEvidenceArgs,
		) (*domain.ReviewEvidence, error) {
			s.Equal("receipt.pdf", args.Filename)
			s.Equal("application/pdf", args.ContentType)
			s.Equal(int64(len(content)), args.Size)
			got, err := io.ReadAll(args.Body)
			s.Require().NoError(err)
			s.Equal(content, got)
			return &domain.ReviewEvidence{
				ID:          3,
				ReviewID:    reviewID,
				URL:         "http://storage.local/reviews/1/receipt.pdf",
				ContentType: args.ContentType,
			}, nil
		})

	body, contentType, err := testutils.MultipartFile(EvidenceFormField, "receipt.pdf", "application/pdf", content)
	s.Require().NoError(err)
	token, _ := s.tokenFor(buyer)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + "/reviews/1/evidence",
		Body:   body,
	}, testutils.WithBearer(token), testutils.WithHeader("Content-Type", contentType))
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, res.StatusCode)

	var ev EvidenceResponse
	s.Require().NoError(testutils.DecodeJSON(res, &ev))
	s.Equal(int64(3), ev.ID)
	s.Equal("application/pdf", ev.ContentType)
}

func (s *ReviewHandlerTestSuite) TestAddEvidenceWithoutFile() {
	s.reviewService.EXPECT().AddEvidence(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res := s.do(http.MethodPost, RouteGroup+"/reviews/1/evidence", nil, buyer)
	p := s.problem(res, http.StatusBadRequest)
	s.Contains(p.Errors, EvidenceFormField)
}

func (s *ReviewHandlerTestSuite) TestRemoveEvidence() {
	s.reviewService.EXPECT().RemoveEvidence(gomock.Any(), buyer, int64(1), int64(3)).Return(nil)
	s.reviewService.EXPECT().RemoveEvidence(gomock.Any(), buyer, int64(1), int64(4)).Return(domain.ErrRecordNotFound)

	res := s.do(http.MethodDelete, RouteGroup+"/reviews/1/evidence/3", nil, buyer)
	defer s.closeBody(res)
	s.Equal(http.StatusNoContent, res.StatusCode)

	s.problem(s.do(http.MethodDelete, RouteGroup+"/reviews/1/evidence/4", nil, buyer), http.StatusNotFound)
}
