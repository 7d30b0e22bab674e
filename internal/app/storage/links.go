package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultPersistTimeout = 10 * time.Second

// LinkStore owns the code to destination table and keeps its Backend
// record in step with it. The table is read from the backend on first
// access and written through on every create.
type LinkStore struct {
	backend        Backend
	genCode        CodeGenerator
	persistTimeout time.Duration

	mu     sync.RWMutex
	table  LinkTable
	loaded bool
}

type Option func(*LinkStore)

func WithCodeGenerator(g CodeGenerator) Option {
	return func(s *LinkStore) { s.genCode = g }
}

// WithPersistTimeout bounds a single record write. Zero disables the bound.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *LinkStore) { s.persistTimeout = d }
}

func NewLinkStore(backend Backend, opts ...Option) *LinkStore {
	s := &LinkStore{
		backend:        backend,
		genCode:        RandomCode,
		persistTimeout: defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads the table from the backend and makes it the current one.
// A missing record is created empty.
func (s *LinkStore) Load(ctx context.Context) (LinkTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.table = table
	s.loaded = true

	return table.Clone(), nil
}

// Save persists table as the whole record and makes it the current one.
// On failure the current table is left untouched.
func (s *LinkStore) Save(ctx context.Context, table LinkTable) error {
	for code, dest := range table {
		if !validCode(code) || strings.TrimSpace(dest) == "" {
			return &StoreError{Kind: InvalidInput, Msg: fmt.Sprintf("invalid link %q -> %q", code, dest)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, table); err != nil {
		return err
	}
	s.table = table.Clone()
	s.loaded = true

	return nil
}

// CreateLink maps a code to destination and returns the code. An empty
// requestedCode asks for a generated one. A taken code, generated or not,
// fails with ErrCodeConflict.
func (s *LinkStore) CreateLink(ctx context.Context, destination, requestedCode string) (string, error) {
	if strings.TrimSpace(destination) == "" {
		return "", &StoreError{Kind: InvalidInput, Msg: "url is required"}
	}

	code := requestedCode
	if code == "" {
		c, err := s.genCode()
		if err != nil {
			return "", &StoreError{Kind: StoreUnavailable, Msg: "generate short code", Err: err}
		}
		code = c
	} else if !validCode(code) {
		return "", &StoreError{Kind: InvalidInput, Msg: fmt.Sprintf("invalid short code %q", code)}
	}

	// Once started, a create is not abandoned halfway through the write.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return "", err
	}
	if _, ok := s.table[code]; ok {
		return "", &StoreError{Kind: CodeConflict, Msg: fmt.Sprintf("short code %q already exist", code)}
	}

	s.table[code] = destination
	if err := s.persist(ctx, s.table); err != nil {
		delete(s.table, code)
		return "", err
	}

	return code, nil
}

// Resolve looks up the destination of code. An unknown code is reported
// with found == false and a nil error.
func (s *LinkStore) Resolve(ctx context.Context, code string) (destination string, found bool, err error) {
	if err := s.loadOnce(ctx); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	destination, found = s.table[code]
	return destination, found, nil
}

// List returns a snapshot of the whole table.
func (s *LinkStore) List(ctx context.Context) (LinkTable, error) {
	if err := s.loadOnce(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table.Clone(), nil
}

func (s *LinkStore) Close() error {
	return s.backend.Close()
}

func (s *LinkStore) loadOnce(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureLoaded(ctx)
}

// ensureLoaded must be called with s.mu held for writing. A failed load is
// retried on the next call.
func (s *LinkStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	table, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.table = table
	s.loaded = true

	return nil
}

func (s *LinkStore) load(ctx context.Context) (LinkTable, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrRecordNotExist) {
		table := LinkTable{}
		if err := s.persist(ctx, table); err != nil {
			return nil, err
		}
		return table, nil
	}
	if err != nil {
		return nil, &StoreError{Kind: StoreUnavailable, Msg: "read links record", Err: err}
	}

	return decodeTable(data)
}

func (s *LinkStore) persist(ctx context.Context, table LinkTable) error {
	data, err := encodeTable(table)
	if err != nil {
		return &StoreError{Kind: StoreUnavailable, Msg: "encode links record", Err: err}
	}

	if s.persistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.persistTimeout)
		defer cancel()
	}

	if err := s.backend.Replace(ctx, data); err != nil {
		return &StoreError{Kind: StoreUnavailable, Msg: "write links record", Err: err}
	}

	return nil
}

func decodeTable(data []byte) (LinkTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return LinkTable{}, nil
	}

	var table LinkTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, &StoreError{Kind: CorruptStore, Msg: "decode links record", Err: err}
	}
	if table == nil {
		table = LinkTable{}
	}
	for code, dest := range table {
		if strings.TrimSpace(dest) == "" {
			return nil, &StoreError{Kind: CorruptStore, Msg: fmt.Sprintf("empty destination for short code %q", code)}
		}
	}

	return table, nil
}

func encodeTable(table LinkTable) ([]byte, error) {
	if table == nil {
		table = LinkTable{}
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}
