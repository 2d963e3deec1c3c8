package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
)

// Record is one row of data.
type Record = map[string]any

var (
	// ErrPageOutOfRange is returned when a requested page does not exist.
	ErrPageOutOfRange = errors.New("datasource: page out of range")
	// ErrNoTransport is returned when a remote source has no transport.
	ErrNoTransport = errors.New("datasource: transport is required")
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortDescriptor orders the view by one field.
type SortDescriptor struct {
	Field string    `json:"field" yaml:"field"`
	Dir   Direction `json:"dir" yaml:"dir"`
}

// Request describes the slice a transport should return.
type Request struct {
	Page     int
	PageSize int
	Sort     []SortDescriptor
	Fields   []string
}

// Response is a transport result. Total is the size of the full result set;
// when zero the length of Data is used.
type Response struct {
	Data  []Record
	Total int
}

// Transport reads data for remote sources. Fetching is the caller's concern;
// the data source only drives it.
type Transport interface {
	Read(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

// Read calls f.
func (f TransportFunc) Read(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Hints are binding hints a widget supplies when it attaches to a source.
type Hints struct {
	Fields   []string
	PageSize int
}

// Option configures a DataSource.
type Option func(*DataSource)

// WithData makes the source serve records from memory.
func WithData(records []Record) Option {
	return func(ds *DataSource) {
		ds.inline = append([]Record(nil), records...)
		ds.transport = nil
	}
}

// WithTransport makes the source serve records from a transport.
func WithTransport(t Transport) Option {
	return func(ds *DataSource) {
		ds.transport = t
		ds.inline = nil
		ds.remote = true
	}
}

// WithPageSize enables paging with the given page size.
func WithPageSize(size int) Option {
	return func(ds *DataSource) {
		if size > 0 {
			ds.pageSize = size
		}
	}
}

// WithSort sets the initial sort.
func WithSort(sort ...SortDescriptor) Option {
	return func(ds *DataSource) {
		ds.sort = normalizeSort(sort)
	}
}

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(ds *DataSource) {
		ds.logger = logger
	}
}

// DataSource materializes a sorted, paged view over inline records or a
// transport and notifies subscribers when the view changes.
type DataSource struct {
	mu        sync.Mutex
	inline    []Record
	transport Transport
	remote    bool
	pageSize  int
	page      int
	total     int
	sort      []SortDescriptor
	fields    []string
	view      []Record
	logger    logr.Logger

	subsMu  sync.Mutex
	nextID  int
	subs    map[int]func()
	errSubs map[int]func(error)
}

// New constructs a DataSource.
func New(options ...Option) (*DataSource, error) {
	ds := &DataSource{
		page:    1,
		logger:  logr.Discard(),
		subs:    make(map[int]func()),
		errSubs: make(map[int]func(error)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(ds)
		}
	}
	if ds.remote && ds.transport == nil {
		return nil, ErrNoTransport
	}
	return ds, nil
}

// FromInline builds a source over in-memory records.
func FromInline(records []Record, options ...Option) (*DataSource, error) {
	return New(append([]Option{WithData(records)}, options...)...)
}

// FromTransport builds a source reading from t.
func FromTransport(t Transport, options ...Option) (*DataSource, error) {
	if t == nil {
		return nil, ErrNoTransport
	}
	return New(append([]Option{WithTransport(t)}, options...)...)
}

// Bind applies hints from an attaching widget. A page size hint only applies
// when the source has none.
func (ds *DataSource) Bind(h Hints) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if len(h.Fields) > 0 {
		ds.fields = append([]string(nil), h.Fields...)
	}
	if ds.pageSize == 0 && h.PageSize > 0 {
		ds.pageSize = h.PageSize
	}
}

// Subscribe registers fn for view change notifications. The returned function
// cancels the subscription.
func (ds *DataSource) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	ds.subsMu.Lock()
	defer ds.subsMu.Unlock()
	id := ds.nextID
	ds.nextID++
	ds.subs[id] = fn
	return func() {
		ds.subsMu.Lock()
		defer ds.subsMu.Unlock()
		delete(ds.subs, id)
	}
}

// OnError registers fn for transport failures.
func (ds *DataSource) OnError(fn func(error)) func() {
	if fn == nil {
		return func() {}
	}
	ds.subsMu.Lock()
	defer ds.subsMu.Unlock()
	id := ds.nextID
	ds.nextID++
	ds.errSubs[id] = fn
	return func() {
		ds.subsMu.Lock()
		defer ds.subsMu.Unlock()
		delete(ds.errSubs, id)
	}
}

// View returns the current materialized view.
func (ds *DataSource) View() []Record {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return append([]Record(nil), ds.view...)
}

// Total returns the size of the full, unpaged result set.
func (ds *DataSource) Total() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.total
}

// Page returns the current one-based page number.
func (ds *DataSource) Page() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.page
}

// PageSize returns the page size; zero means paging is off.
func (ds *DataSource) PageSize() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.pageSize
}

// TotalPages returns the number of pages, at least one.
func (ds *DataSource) TotalPages() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.totalPagesLocked()
}

func (ds *DataSource) totalPagesLocked() int {
	if ds.pageSize <= 0 || ds.total <= 0 {
		return 1
	}
	return (ds.total + ds.pageSize - 1) / ds.pageSize
}

// Sort returns the active sort descriptors.
func (ds *DataSource) Sort() []SortDescriptor {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return append([]SortDescriptor(nil), ds.sort...)
}

// Query rebuilds the view and notifies subscribers.
func (ds *DataSource) Query(ctx context.Context) error {
	if err := ds.read(ctx); err != nil {
		return err
	}
	ds.notify()
	return nil
}

// SetPage moves to page n and rebuilds the view. Pages outside
// [1, TotalPages] are rejected with ErrPageOutOfRange.
func (ds *DataSource) SetPage(ctx context.Context, n int) error {
	ds.mu.Lock()
	pages := ds.totalPagesLocked()
	if n < 1 || n > pages {
		ds.mu.Unlock()
		return fmt.Errorf("%w: %d (pages: %d)", ErrPageOutOfRange, n, pages)
	}
	previous := ds.page
	ds.page = n
	ds.mu.Unlock()

	if err := ds.read(ctx); err != nil {
		ds.mu.Lock()
		ds.page = previous
		ds.mu.Unlock()
		return err
	}
	ds.notify()
	return nil
}

// SetSort replaces the sort order, returns to the first page and rebuilds
// the view.
func (ds *DataSource) SetSort(ctx context.Context, sort ...SortDescriptor) error {
	ds.mu.Lock()
	previousSort, previousPage := ds.sort, ds.page
	ds.sort = normalizeSort(sort)
	ds.page = 1
	ds.mu.Unlock()

	if err := ds.read(ctx); err != nil {
		ds.mu.Lock()
		ds.sort, ds.page = previousSort, previousPage
		ds.mu.Unlock()
		return err
	}
	ds.notify()
	return nil
}

func (ds *DataSource) read(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ds.mu.Lock()
	req := Request{
		Page:     ds.page,
		PageSize: ds.pageSize,
		Sort:     append([]SortDescriptor(nil), ds.sort...),
		Fields:   append([]string(nil), ds.fields...),
	}
	transport := ds.transport
	if transport == nil {
		sorted := sortRecords(ds.inline, req.Sort)
		ds.total = len(sorted)
		ds.view = pageSlice(sorted, req.Page, req.PageSize)
		rows := len(ds.view)
		ds.mu.Unlock()
		ds.logger.V(2).Info("inline view rebuilt", "page", req.Page, "rows", rows)
		return nil
	}
	ds.mu.Unlock()

	resp, err := transport.Read(ctx, req)
	if err != nil {
		err = fmt.Errorf("datasource: read: %w", err)
		ds.logger.Error(err, "transport read failed", "page", req.Page)
		ds.notifyError(err)
		return err
	}

	ds.mu.Lock()
	ds.view = append([]Record(nil), resp.Data...)
	ds.total = resp.Total
	if ds.total == 0 {
		ds.total = len(resp.Data)
	}
	ds.mu.Unlock()
	ds.logger.V(2).Info("remote view loaded", "page", req.Page, "rows", len(resp.Data))
	return nil
}

// notify delivers change notifications in subscription order, outside ds.mu
// so subscribers may read the view or request another page.
func (ds *DataSource) notify() {
	for _, fn := range ds.snapshot() {
		fn()
	}
}

func (ds *DataSource) snapshot() []func() {
	ds.subsMu.Lock()
	defer ds.subsMu.Unlock()
	ids := sortedIDs(ds.subs)
	out := make([]func(), 0, len(ids))
	for _, id := range ids {
		out = append(out, ds.subs[id])
	}
	return out
}

func (ds *DataSource) notifyError(err error) {
	ds.subsMu.Lock()
	ids := sortedIDs(ds.errSubs)
	fns := make([]func(error), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, ds.errSubs[id])
	}
	ds.subsMu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}
