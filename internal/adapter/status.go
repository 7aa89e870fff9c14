package adapter

// Status is the sentinel display mode of a list
type Status int

const (
	StatusNone Status = iota
	StatusEmpty
	StatusLoading
	StatusError
	StatusPreLoading
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusPreLoading:
		return "pre-loading"
	default:
		return "none"
	}
}

// Label is the default sentinel text for the status
func (s Status) Label() string {
	switch s {
	case StatusEmpty:
		return "Nothing here"
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Something went wrong"
	case StatusPreLoading:
		return "Preparing..."
	default:
		return ""
	}
}

// LoadMoreState is the state of the load-more sentinel
type LoadMoreState int

const (
	LoadMoreNormal LoadMoreState = iota
	LoadMoreLoading
	LoadMoreNoMore
	LoadMoreError
	LoadMoreRetry
)

func (s LoadMoreState) String() string {
	switch s {
	case LoadMoreLoading:
		return "loading"
	case LoadMoreNoMore:
		return "no-more"
	case LoadMoreError:
		return "error"
	case LoadMoreRetry:
		return "retry"
	default:
		return "normal"
	}
}

// Label is the sentinel text for the state
func (s LoadMoreState) Label() string {
	switch s {
	case LoadMoreLoading:
		return "Loading more..."
	case LoadMoreNoMore:
		return "No more items"
	case LoadMoreError:
		return "Failed to load more"
	case LoadMoreRetry:
		return "Tap to retry"
	default:
		return "Load more"
	}
}

// triggers reports whether binding the sentinel in this state asks for more
func (s LoadMoreState) triggers() bool {
	return s == LoadMoreNormal || s == LoadMoreRetry
}
