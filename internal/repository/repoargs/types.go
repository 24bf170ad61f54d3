package repoargs

type RepositoryName string

const (
	UserRepoName         RepositoryName = "user"
	ProfileRepoName      RepositoryName = "user_profile"
	CategoryRepoName     RepositoryName = "category"
	DocumentRepoName     RepositoryName = "document"
	ListingRepoName      RepositoryName = "listing"
	OrderRepoName        RepositoryName = "order"
	PaymentRepoName      RepositoryName = "payment"
	ReviewRepoName       RepositoryName = "review"
	EvidenceRepoName     RepositoryName = "review_evidence"
	NotificationRepoName RepositoryName = "notification"
	StatusRepoName       RepositoryName = "status"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page параметры постраничной выборки. Номер страницы начинается с 1.
type Page struct {
	Number int
	Size   int
}

// Normalize подставляет значения по умолчанию и ограничивает размер страницы MaxPageSize.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Limit() int {
	return p.Normalize().Size
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// PageResult страница результатов и общее количество записей, удовлетворяющих фильтру.
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  Page
}

func NewPageResult[T any](items []T, total int64, p Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Total: total, Page: p.Normalize()}
}
