package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fantasy/internal/cli/listview"
	"fantasy/internal/cli/state"
	pkgrepo "fantasy/pkg/repository"
)

type list interface {
	loaded() bool
	load(ctx context.Context) error
	setFilter(ctx context.Context, filter string) error
	selectPage(ctx context.Context, page int) error
	selectRecordsNumber(ctx context.Context, n int) error
	afterModalClose(ctx context.Context) error
	delete(ctx context.Context, id int64, confirm func() bool) (listview.DeleteOutcome, error)
	render()
}

type countryRow struct {
	ID         int64
	Name       string
	TeamsCount int
}

type teamRow struct {
	ID            int64
	Name          string
	CountryID     int64
	Country       *countryRow
	ImageFull     string
	IsImageSquare bool
}

func formatCountry(c countryRow) string {
	return fmt.Sprintf("%6d  %-40s teams: %d", c.ID, c.Name, c.TeamsCount)
}

func formatTeam(t teamRow) string {
	country := strconv.FormatInt(t.CountryID, 10)
	if t.Country != nil {
		country = t.Country.Name
	}
	return fmt.Sprintf("%6d  %-32s %-24s %s", t.ID, t.Name, country, t.ImageFull)
}

type listSession[T any] struct {
	session  *Session
	name     string
	view     *listview.View[T]
	format   func(T) string
	restored bool
}

func newList[T any](s *Session, name, base string, format func(T) string) *listSession[T] {
	return &listSession[T]{
		session: s,
		name:    name,
		view:    listview.New[T](listview.NewEndpoint[T](s.client, base)),
		format:  format,
	}
}

func (l *listSession[T]) restore() {
	if l.restored {
		return
	}
	l.restored = true
	saved := l.session.state.List(l.name)
	if saved.RecordsNumber > 0 {
		l.view.RecordsNumber = saved.RecordsNumber
	}
	l.view.Filter = saved.Filter
}

func (l *listSession[T]) persist() {
	l.session.state.SetList(l.name, state.ListState{RecordsNumber: l.view.RecordsNumber, Filter: l.view.Filter})
	l.session.saveState()
}

func (l *listSession[T]) loaded() bool {
	return l.view.State == listview.Loaded
}

func (l *listSession[T]) load(ctx context.Context) error {
	l.restore()
	return l.view.Load(ctx)
}

func (l *listSession[T]) setFilter(ctx context.Context, filter string) error {
	l.restore()
	defer l.persist()
	return l.view.SetFilter(ctx, filter)
}

func (l *listSession[T]) selectPage(ctx context.Context, page int) error {
	l.restore()
	return l.view.SelectPage(ctx, page)
}

func (l *listSession[T]) selectRecordsNumber(ctx context.Context, n int) error {
	l.restore()
	if err := l.view.SelectRecordsNumber(ctx, n); err != nil {
		return err
	}
	l.persist()
	return nil
}

func (l *listSession[T]) afterModalClose(ctx context.Context) error {
	return l.view.AfterModalClose(ctx)
}

func (l *listSession[T]) delete(ctx context.Context, id int64, confirm func() bool) (listview.DeleteOutcome, error) {
	l.restore()
	return l.view.Delete(ctx, id, confirm)
}

func (l *listSession[T]) render() {
	s := l.session
	v := l.view
	if v.Message != "" {
		s.printLine("%s", v.Message)
	}
	if v.Items == nil {
		return
	}
	size := strconv.Itoa(v.RecordsNumber)
	if v.RecordsNumber == pkgrepo.AllRecords {
		size = "all"
	}
	header := fmt.Sprintf("%s: %d record(s), page %d/%d, size %s", l.name, v.TotalRecords, v.Page, v.TotalPages, size)
	if v.Filter != "" {
		header += fmt.Sprintf(", filter %q", v.Filter)
	}
	s.printLine("%s", header)
	if len(v.Items) == 0 {
		s.printLine("  (no records)")
		return
	}
	for _, item := range v.Items {
		s.printLine("%s", l.format(item))
	}
}

func (s *Session) handleListCommand(ctx context.Context, l list, action string, args []string) (bool, error) {
	var err error
	switch action {
	case "list":
		err = l.load(ctx)
	case "filter":
		err = l.setFilter(ctx, strings.Join(args, " "))
	case "page":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: page <n>")
		}
		page, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return true, fmt.Errorf("invalid page: %w", convErr)
		}
		err = l.selectPage(ctx, page)
	case "size":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: size <10|25|50|all>")
		}
		n := pkgrepo.AllRecords
		if args[0] != "all" {
			var convErr error
			if n, convErr = strconv.Atoi(args[0]); convErr != nil {
				return true, fmt.Errorf("invalid size: %w", convErr)
			}
		}
		err = l.selectRecordsNumber(ctx, n)
	case "delete":
		return true, s.deleteFromList(ctx, l, args)
	default:
		return false, nil
	}
	if err != nil {
		return true, err
	}
	l.render()
	return true, nil
}

func (s *Session) deleteFromList(ctx context.Context, l list, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	raw := strings.TrimPrefix(args[0], "id=")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	outcome, err := l.delete(ctx, id, func() bool {
		return s.confirm(fmt.Sprintf("Are you sure you want to delete record %d?", id))
	})
	if err != nil {
		return err
	}
	if outcome == listview.DeleteCancelled {
		s.printLine("cancelled")
		return nil
	}
	l.render()
	return nil
}
