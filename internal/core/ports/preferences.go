package ports

// DisplayPreferences supplies the pagination defaults used when a caller omits them.
//
//go:generate go run go.uber.org/mock/mockgen -source=preferences.go -destination=mocks/mock_preferences.go -package=mocks
type DisplayPreferences interface {
	// DefaultPage returns the 1-based page to show.
	DefaultPage() int
	// DefaultPageSize returns the number of items per page.
	DefaultPageSize() int
}
