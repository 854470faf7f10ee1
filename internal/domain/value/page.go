package value

import (
	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/pkg/errcodes"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a zero-based page index plus a page size.
type PageRequest struct {
	Page int
	Size int
}

func NewPageRequest(page, size int) (PageRequest, error) {
	if page < 0 || size <= 0 || size > MaxPageSize {
		return PageRequest{}, failure.NewInvalidArgumentError(
			"invalid paging",
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription("Paginação inválida"),
		)
	}

	return PageRequest{Page: page, Size: size}, nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Bounds clamps the slice window [offset, offset+size) to total. An
// out-of-range page yields an empty window, not an error.
func (p PageRequest) Bounds(total int) (start, end int) {
	start = p.Offset()
	if start > total {
		return total, total
	}

	end = start + p.Size
	if end > total {
		end = total
	}

	return start, end
}
