package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
	"github.com/rof/invgen/internal/core/scope"
)

const (
	// EntriesPageSize is the fixed page size of the entry listing.
	EntriesPageSize = 8
	// UploadPrefix is the public path under which stored images are served.
	UploadPrefix = "/uploads/"

	sniffLen = 3072

	// maxEntriesPage keeps the computed skip from overflowing.
	maxEntriesPage = math.MaxInt / EntriesPageSize
)

type EntryService struct {
	entries ports.EntryRepository
	users   ports.UserRepository
	images  ports.ImageStore
	loc     *time.Location
	logger  zerolog.Logger
	now     func() time.Time
}

func NewEntryService(entries ports.EntryRepository, users ports.UserRepository, images ports.ImageStore, loc *time.Location, logger zerolog.Logger) *EntryService {
	if loc == nil {
		loc = time.Local
	}
	return &EntryService{entries: entries, users: users, images: images, loc: loc, logger: logger, now: time.Now}
}

// Add validates and stores a new entry together with its image. The image
// is removed again if the entry cannot be inserted.
func (s *EntryService) Add(ctx context.Context, in ports.AddEntryInput) (*domain.Entry, error) {
	project := in.Caller.Project
	if in.Caller.IsAdmin() {
		project = domain.Project(strings.TrimSpace(in.Project))
	}

	now := s.now().UTC()
	entry := &domain.Entry{
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Type:      domain.EntryType(in.Type),
		Remarks:   in.Remarks,
		Project:   project,
		CreatedBy: in.Caller.UserID,
		CreatedAt: now,
		UpdatedAt: now,
		Broker: &domain.BrokerDetails{
			Name:      strings.TrimSpace(in.BrokerName),
			FirmName:  strings.TrimSpace(in.FirmName),
			ContactNo: strings.TrimSpace(in.BrokerContactNo),
		},
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if in.Image == nil || in.Image.Body == nil {
		return nil, domain.ErrImageRequired
	}

	name, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	entry.Image = UploadPrefix + name

	if err := s.entries.Create(ctx, entry); err != nil {
		if delErr := s.images.Delete(ctx, name); delErr != nil {
			s.logger.Warn().Err(delErr).Str("image", name).Msg("failed to remove orphaned image")
		}
		s.logger.Error().Err(err).Msg("failed to create entry")
		return nil, err
	}

	s.logger.Info().Str("entry_id", entry.ID).Str("project", string(entry.Project)).Str("type", string(entry.Type)).Msg("entry created")
	return entry, nil
}

// storeImage sniffs the upload's content and saves it under a generated name.
func (s *EntryService) storeImage(ctx context.Context, up *ports.Upload) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	if n == 0 {
		return "", domain.ErrImageRequired
	}

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.ErrImageNotImage
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(up.Filename))
	}
	name := uuid.NewString() + ext

	body := io.MultiReader(bytes.NewReader(head), up.Body)
	size := up.Size
	if size <= 0 {
		size = -1
	}
	if err := s.images.Save(ctx, name, body, size, mt.String()); err != nil {
		return "", err
	}
	return name, nil
}

// List returns one page of entries visible to the caller, newest first.
func (s *EntryService) List(ctx context.Context, in ports.ListEntriesInput) (*ports.ListEntriesResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	if page > maxEntriesPage {
		page = maxEntriesPage
	}

	f := scope.Resolve(in.Caller, in.Project, in.DateFilter, s.now().In(s.loc))
	entries, total, err := s.entries.List(ctx, ports.EntryFilter{
		Project: f.Project,
		Created: f.Created,
		Skip:    (page - 1) * EntriesPageSize,
		Limit:   EntriesPageSize,
	})
	if err != nil {
		return nil, err
	}
	if err := attachCreators(ctx, s.users, entries); err != nil {
		return nil, err
	}

	return &ports.ListEntriesResult{
		Page:         page,
		TotalPages:   int((total + EntriesPageSize - 1) / EntriesPageSize),
		TotalEntries: total,
		Entries:      entries,
	}, nil
}

// attachCreators fills Entry.Creator from the user store. Entries whose
// creator no longer exists keep a nil Creator.
func attachCreators(ctx context.Context, users ports.UserRepository, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.CreatedBy == "" {
			continue
		}
		if _, ok := seen[e.CreatedBy]; ok {
			continue
		}
		seen[e.CreatedBy] = struct{}{}
		ids = append(ids, e.CreatedBy)
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*domain.Creator, len(found))
	for _, u := range found {
		byID[u.ID] = &domain.Creator{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	for _, e := range entries {
		e.Creator = byID[e.CreatedBy]
	}
	return nil
}
