package listview

import (
	"context"
	"fmt"
	"slices"

	pkgrepo "fantasy/pkg/repository"
)

// State of a View.
type State int

const (
	Loading State = iota
	Loaded
)

// DeleteOutcome reports how a delete request ended.
type DeleteOutcome int

const (
	DeleteCancelled DeleteOutcome = iota
	DeleteOK
	DeleteFailed
	// DeleteNavigatedAway means the record was already gone; the view went back to page 1.
	DeleteNavigatedAway
)

const MessageDeleted = "Record deleted successfully."

// PageSizes are the page sizes offered to the user; AllRecords shows everything.
var PageSizes = []int{10, 25, 50, pkgrepo.AllRecords}

// View keeps a paginated, filtered table in sync with the server.
// It is not safe for concurrent use.
type View[T any] struct {
	source Source[T]

	State         State
	Page          int
	RecordsNumber int
	Filter        string
	TotalRecords  int64
	TotalPages    int
	Items         []T
	Message       string
}

func New[T any](source Source[T]) *View[T] {
	return &View[T]{
		source:        source,
		State:         Loading,
		Page:          pkgrepo.DefaultPage,
		RecordsNumber: pkgrepo.DefaultRecordsNumber,
	}
}

// Load fetches the matching count and then the current page. A failed
// response sets Message and clears Items; only transport failures are returned.
func (v *View[T]) Load(ctx context.Context) error {
	v.State = Loading
	v.Message = ""
	defer func() { v.State = Loaded }()

	count, err := v.source.Count(ctx, v.Filter)
	if err != nil {
		v.fail(err.Error())
		return err
	}
	if count.Error {
		v.fail(count.ErrorMessage())
		return nil
	}
	v.TotalRecords = count.Response
	v.TotalPages = pkgrepo.TotalPages(v.TotalRecords, v.RecordsNumber)

	page, err := v.source.Page(ctx, v.Page, v.RecordsNumber, v.Filter)
	if err != nil {
		v.fail(err.Error())
		return err
	}
	if page.Error {
		v.fail(page.ErrorMessage())
		return nil
	}
	v.Items = page.Response
	if v.Items == nil {
		v.Items = []T{}
	}
	return nil
}

func (v *View[T]) fail(message string) {
	v.Items = nil
	v.Message = message
}

// SetFilter applies a new filter from the first page.
func (v *View[T]) SetFilter(ctx context.Context, filter string) error {
	v.Filter = filter
	v.Page = pkgrepo.DefaultPage
	return v.Load(ctx)
}

// SelectPage moves to page and reloads.
func (v *View[T]) SelectPage(ctx context.Context, page int) error {
	if page < 1 {
		page = pkgrepo.DefaultPage
	}
	v.Page = page
	return v.Load(ctx)
}

// SelectRecordsNumber changes the page size and reloads.
func (v *View[T]) SelectRecordsNumber(ctx context.Context, recordsNumber int) error {
	if !slices.Contains(PageSizes, recordsNumber) {
		return fmt.Errorf("unsupported page size %d", recordsNumber)
	}
	v.RecordsNumber = recordsNumber
	return v.Load(ctx)
}

// AfterModalClose reloads after a create or edit, whatever its result.
func (v *View[T]) AfterModalClose(ctx context.Context) error {
	return v.Load(ctx)
}

// Delete removes a record once confirm agrees, then reloads.
func (v *View[T]) Delete(ctx context.Context, id int64, confirm func() bool) (DeleteOutcome, error) {
	if confirm != nil && !confirm() {
		return DeleteCancelled, nil
	}
	resp, err := v.source.Delete(ctx, id)
	if err != nil {
		v.Message = err.Error()
		return DeleteFailed, err
	}
	if resp.Error {
		if resp.StatusCode() == 404 {
			v.Page = pkgrepo.DefaultPage
			if err := v.Load(ctx); err != nil {
				return DeleteNavigatedAway, err
			}
			v.Message = resp.ErrorMessage()
			return DeleteNavigatedAway, nil
		}
		v.Message = resp.ErrorMessage()
		return DeleteFailed, nil
	}
	if err := v.Load(ctx); err != nil {
		return DeleteOK, err
	}
	v.Message = MessageDeleted
	return DeleteOK, nil
}
