package service

import (
	"fmt"

	"github.com/fsdevblog/docswap/pkg/uow"
)

type AppServices struct {
	UserService         *UserService
	CategoryService     *CategoryService
	DocumentService     *DocumentService
	ListingService      *ListingService
	OrderService        *OrderService
	PaymentService      *PaymentService
	ReviewService       *ReviewService
	NotificationService *NotificationService
	StatusService       *StatusCatalogService
}

type FactoryArgs struct {
	User    UserServiceArgs
	Storage ObjectStorage
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	notificationService, err := NewNotificationService(unitOfWork)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	paymentService, err := NewPaymentService(unitOfWork)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	userService, err := NewUserService(unitOfWork, args.User)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	categoryService, err := NewCategoryService(unitOfWork)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	documentService, err := NewDocumentService(unitOfWork)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	listingService, err := NewListingService(unitOfWork, notificationService)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	orderService, err := NewOrderService(unitOfWork, notificationService, paymentService)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	reviewService, err := NewReviewService(unitOfWork, args.Storage, notificationService)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	statusService, err := NewStatusCatalogService(unitOfWork)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	return &AppServices{
		UserService:         userService,
		CategoryService:     categoryService,
		DocumentService:     documentService,
		ListingService:      listingService,
		OrderService:        orderService,
		PaymentService:      paymentService,
		ReviewService:       reviewService,
		NotificationService: notificationService,
		StatusService:       statusService,
	}, nil
}
