package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ListingServiceTestSuite struct {
	serviceSuite
	listingService *ListingService
}

func TestListingServiceSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceTestSuite))
}

func (s *ListingServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	listingService, err := NewListingService(s.mockUOW, s.notifier)
	s.Require().NoError(err)
	s.listingService = listingService
}

var (
	owner    = domain.Actor{ID: 1, Role: domain.RoleUser}
	stranger = domain.Actor{ID: 2, Role: domain.RoleUser}
	admin    = domain.Actor{ID: 99, Role: domain.RoleAdmin}
)

func activeListing() *domain.Listing {
	return &domain.Listing{
		ID:         10,
		DocumentID: 20,
		OwnerID:    owner.ID,
		Type:       domain.ListingTypeSell,
		Price:      decimal.RequireFromString("10.00"),
		Quantity:   3,
		Status:     domain.ListingStatusActive,
		Version:    4,
	}
}

func (s *ListingServiceTestSuite) TestCreate() {
	args := CreateListingArgs{
		DocumentID: 20,
		Type:       domain.ListingTypeSell,
		Price:      decimal.RequireFromString("10.00"),
		Quantity:   1,
	}

	s.Run("document becomes listed", func() {
		doc := &domain.Document{ID: 20, OwnerID: owner.ID, Status: domain.DocumentStatusInStock}
		s.documentRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(20)).Return(doc, nil)
		s.documentRepo.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *domain.Document) (*domain.Document, error) {
				s.Equal(domain.DocumentStatusListed, d.Status)
				return d, nil
			})
		s.listingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.Listing{
			ID: 10, DocumentID: 20, OwnerID: owner.ID, Status: domain.ListingStatusActive, Version: 1,
		}, nil)

		listing, err := s.listingService.Create(s.T().Context(), owner, args)
		s.Require().NoError(err)
		s.Equal(int64(1), listing.Version)
		s.Equal(domain.ListingStatusActive, listing.Status)
	})

	s.Run("foreign document", func() {
		doc := &domain.Document{ID: 20, OwnerID: owner.ID, Status: domain.DocumentStatusInStock}
		s.documentRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(20)).Return(doc, nil)

		_, err := s.listingService.Create(s.T().Context(), stranger, args)
		s.Require().ErrorIs(err, domain.ErrForbidden)
	})

	s.Run("document already listed", func() {
		doc := &domain.Document{ID: 20, OwnerID: owner.ID, Status: domain.DocumentStatusListed}
		s.documentRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(20)).Return(doc, nil)

		_, err := s.listingService.Create(s.T().Context(), owner, args)
		s.Require().ErrorIs(err, domain.ErrInvalidTransition)
	})

	s.Run("invalid terms", func() {
		bad := args
		bad.Price = decimal.Zero

		_, err := s.listingService.Create(s.T().Context(), owner, bad)
		var verr *domain.ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Contains(verr.Fields, "price")
	})

	s.Run("exchange without desired documents", func() {
		bad := args
		bad.Type = domain.ListingTypeExchange
		bad.Price = decimal.Zero

		_, err := s.listingService.Create(s.T().Context(), owner, bad)
		var verr *domain.ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Contains(verr.Fields, "desiredDocumentIds")
	})
}

func (s *ListingServiceTestSuite) TestUpdate() {
	args := UpdateListingArgs{
		Price:    decimal.RequireFromString("12.50"),
		Quantity: 2,
		Version:  4,
	}

	s.Run("latest version succeeds", func() {
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).Return(activeListing(), nil)
		s.listingRepo.EXPECT().Save(gomock.Any(), gomock.Any(), int64(4)).
			DoAndReturn(func(_ context.Context, l *domain.Listing, _ int64) (*domain.Listing, error) {
				s.True(l.Price.Equal(args.Price))
				s.Equal(2, l.Quantity)
				saved := *l
				saved.Version = 5
				return &saved, nil
			})

		listing, err := s.listingService.Update(s.T().Context(), owner, 10, args)
		s.Require().NoError(err)
		s.Equal(int64(5), listing.Version)
	})

	s.Run("stale version fails without write", func() {
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).Return(activeListing(), nil)
		s.listingRepo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		stale := args
		stale.Version = 3
		_, err := s.listingService.Update(s.T().Context(), owner, 10, stale)
		s.Require().ErrorIs(err, domain.ErrConcurrency)
	})

	s.Run("concurrent write detected by storage", func() {
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).Return(activeListing(), nil)
		s.listingRepo.EXPECT().Save(gomock.Any(), gomock.Any(), int64(4)).Return(nil, domain.ErrConcurrency)

		_, err := s.listingService.Update(s.T().Context(), owner, 10, args)
		s.Require().ErrorIs(err, domain.ErrConcurrency)
	})

	s.Run("not the owner", func() {
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).Return(activeListing(), nil)

		_, err := s.listingService.Update(s.T().Context(), stranger, 10, args)
		s.Require().ErrorIs(err, domain.ErrForbidden)
	})

	s.Run("not active", func() {
		l := activeListing()
		l.Status = domain.ListingStatusRejected
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).Return(l, nil)

		_, err := s.listingService.Update(s.T().Context(), owner, 10, args)
		s.Require().ErrorIs(err, domain.ErrInvalidTransition)
	})

	s.Run("deleted listing", func() {
		l := activeListing()
		l.IsDeleted = true
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).Return(l, nil)

		_, err := s.listingService.Update(s.T().Context(), owner, 10, args)
		s.Require().ErrorIs(err, domain.ErrRecordNotFound)
	})
}

func (s *ListingServiceTestSuite) TestCancel() {
	cases := []struct {
		name       string
		actor      domain.Actor
		docStatus  domain.DocumentStatus
		wantDoc    domain.DocumentStatus
		wantSave   bool
		wantErrIs  error
		listingMod func(l *domain.Listing)
	}{
		{
			name:      "owner cancels, document returns to stock",
			actor:     owner,
			docStatus: domain.DocumentStatusListed,
			wantDoc:   domain.DocumentStatusInStock,
			wantSave:  true,
		},
		{
			name:      "admin cancels, document in pending sale untouched",
			actor:     admin,
			docStatus: domain.DocumentStatusPendingSale,
		},
		{
			name:      "stranger",
			actor:     stranger,
			wantErrIs: domain.ErrForbidden,
		},
		{
			name:       "already sold",
			actor:      owner,
			wantErrIs:  domain.ErrInvalidTransition,
			listingMod: func(l *domain.Listing) { l.Status = domain.ListingStatusSold },
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			l := activeListing()
			if tc.listingMod != nil {
				tc.listingMod(l)
			}
			s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID).Return(l, nil)

			if tc.wantErrIs == nil {
				s.listingRepo.EXPECT().Save(gomock.Any(), gomock.Any(), int64(4)).
					DoAndReturn(func(_ context.Context, saved *domain.Listing, _ int64) (*domain.Listing, error) {
						s.Equal(domain.ListingStatusCancelled, saved.Status)
						s.True(saved.IsDeleted)
						s.NotNil(saved.DeletedAt)
						return saved, nil
					})
				doc := &domain.Document{ID: l.DocumentID, OwnerID: owner.ID, Status: tc.docStatus}
				s.documentRepo.EXPECT().FindByIDForUpdate(gomock.Any(), l.DocumentID).Return(doc, nil)
				if tc.wantSave {
					s.documentRepo.EXPECT().Save(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, d *domain.Document) (*domain.Document, error) {
							s.Equal(tc.wantDoc, d.Status)
							return d, nil
						})
				}
			}

			_, err := s.listingService.Cancel(s.T().Context(), tc.actor, l.ID)
			if tc.wantErrIs != nil {
				s.Require().ErrorIs(err, tc.wantErrIs)
				return
			}
			s.Require().NoError(err)
		})
	}
}

func (s *ListingServiceTestSuite) TestReject() {
	s.Run("only admin", func() {
		_, err := s.listingService.Reject(s.T().Context(), owner, 10, "spam")
		s.Require().ErrorIs(err, domain.ErrForbidden)
	})

	s.Run("reason is required", func() {
		_, err := s.listingService.Reject(s.T().Context(), admin, 10, "  ")
		var verr *domain.ValidationError
		s.Require().ErrorAs(err, &verr)
	})

	s.Run("rejects and notifies owner", func() {
		l := activeListing()
		s.listingRepo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID).Return(l, nil)
		s.listingRepo.EXPECT().Save(gomock.Any(), gomock.Any(), int64(4)).
			DoAndReturn(func(_ context.Context, saved *domain.Listing, _ int64) (*domain.Listing, error) {
				s.Equal(domain.ListingStatusRejected, saved.Status)
				s.Equal("spam", saved.RejectReason)
				return saved, nil
			})
		doc := &domain.Document{ID: l.DocumentID, Status: domain.DocumentStatusListed}
		s.documentRepo.EXPECT().FindByIDForUpdate(gomock.Any(), l.DocumentID).Return(doc, nil)
		s.documentRepo.EXPECT().Save(gomock.Any(), doc).Return(doc, nil)
		s.notifier.EXPECT().
			Notify(gomock.Any(), s.mockTX, owner.ID, domain.NotificationListingRejected, l.ID).
			Return(&domain.Notification{}, nil)

		listing, err := s.listingService.Reject(s.T().Context(), admin, l.ID, "spam")
		s.Require().NoError(err)
		s.Equal(domain.ListingStatusRejected, listing.Status)
		s.Equal(domain.DocumentStatusInStock, doc.Status)
	})
}

func (s *ListingServiceTestSuite) TestListVisibility() {
	cases := []struct {
		name  string
		actor domain.Actor
		owner int64
		want  bool
	}{
		{name: "anonymous sees active only", actor: domain.Actor{}, owner: owner.ID, want: false},
		{name: "stranger sees active only", actor: stranger, owner: owner.ID, want: false},
		{name: "owner sees every status", actor: owner, owner: owner.ID, want: true},
		{name: "admin sees every status", actor: admin, owner: owner.ID, want: true},
		{name: "no owner filter", actor: admin, want: false},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.listingRepo.EXPECT().List(gomock.Any(), repoargs.ListingFilter{OwnerID: tc.owner, AllStatuses: tc.want}).
				Return(nil, int64(0), nil)

			_, err := s.listingService.List(s.T().Context(), tc.actor, repoargs.ListingFilter{OwnerID: tc.owner})
			s.Require().NoError(err)
		})
	}
}
