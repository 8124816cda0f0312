package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/rv-planner/internal/domain"
)

// FolderService manages the owner's folders. Folders are flat labels; a
// destination is in at most one folder.
type FolderService struct {
	store *CollectionStore
	now   func() time.Time
}

// NewFolderService constructs a FolderService.
func NewFolderService(store *CollectionStore) *FolderService {
	return &FolderService{store: store, now: time.Now}
}

// Create adds a folder. The name is required; duplicates are allowed.
func (s *FolderService) Create(ctx context.Context, owner, name string) (domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, fmt.Errorf("service.FolderService.Create: %w: folder name is required", domain.ErrValidation)
	}

	folders, err := s.store.LoadFolders(ctx, owner)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("service.FolderService.Create: %w", err)
	}
	f := domain.Folder{ID: uuid.NewString(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.store.SaveFolders(ctx, owner, append(folders, f)); err != nil {
		return domain.Folder{}, fmt.Errorf("service.FolderService.Create: %w", err)
	}
	return f, nil
}

// Prompt asks for a folder name and creates the folder. An empty answer
// asks again.
func (s *FolderService) Prompt(ctx context.Context, owner string, dlg Dialog) (domain.Folder, error) {
	const op = "service.FolderService.Prompt"

	message := "Enter folder name:"
	for {
		name, ok, err := dlg.PromptText(ctx, "Create Folder", message, "")
		if err != nil {
			return domain.Folder{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return domain.Folder{}, fmt.Errorf("%s: %w", op, domain.ErrCancelled)
		}
		if strings.TrimSpace(name) == "" {
			message = "Folder name is required. Enter folder name:"
			continue
		}
		return s.Create(ctx, owner, name)
	}
}

// List returns the owner's folders in creation order.
func (s *FolderService) List(ctx context.Context, owner string) ([]domain.Folder, error) {
	folders, err := s.store.LoadFolders(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.FolderService.List: %w", err)
	}
	return folders, nil
}

// CountMembers returns how many destinations are filed in the folder.
func (s *FolderService) CountMembers(ctx context.Context, owner, folderID string) (int, error) {
	ds, err := s.store.Load(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("service.FolderService.CountMembers: %w", err)
	}
	return countMembers(ds, folderID), nil
}

// Rename changes a folder's name.
func (s *FolderService) Rename(ctx context.Context, owner, folderID, name string) (domain.Folder, error) {
	const op = "service.FolderService.Rename"

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, fmt.Errorf("%s: %w: folder name is required", op, domain.ErrValidation)
	}
	folders, err := s.store.LoadFolders(ctx, owner)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("%s: %w", op, err)
	}
	i := folderIndex(folders, folderID)
	if i < 0 {
		return domain.Folder{}, fmt.Errorf("%s: folder %q: %w", op, folderID, domain.ErrNotFound)
	}
	folders[i].Name = name
	if err := s.store.SaveFolders(ctx, owner, folders); err != nil {
		return domain.Folder{}, fmt.Errorf("%s: %w", op, err)
	}
	return folders[i], nil
}

// Delete removes a folder after the user confirms. Its members are
// unfiled, not deleted. The destinations are saved before the folder list
// so that a failure never leaves members pointing at a missing folder.
func (s *FolderService) Delete(ctx context.Context, owner, folderID string, dlg Dialog) error {
	const op = "service.FolderService.Delete"

	folders, err := s.store.LoadFolders(ctx, owner)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	i := folderIndex(folders, folderID)
	if i < 0 {
		return fmt.Errorf("%s: folder %q: %w", op, folderID, domain.ErrNotFound)
	}
	ds, err := s.store.Load(ctx, owner)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n := countMembers(ds, folderID)
	msg := fmt.Sprintf("Delete folder %q?", folders[i].Name)
	if n > 0 {
		msg = fmt.Sprintf("Delete folder %q? Its %d destination(s) will be unfiled.", folders[i].Name, n)
	}
	ok, err := dlg.Confirm(ctx, msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrCancelled)
	}

	if n > 0 {
		for j := range ds {
			if ds[j].FolderID == folderID {
				ds[j].FolderID = ""
			}
		}
		if err := s.store.Save(ctx, owner, ds); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := s.store.SaveFolders(ctx, owner, slices.Delete(folders, i, i+1)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func countMembers(ds []domain.Destination, folderID string) int {
	n := 0
	for _, d := range ds {
		if d.FolderID == folderID {
			n++
		}
	}
	return n
}

func folderIndex(folders []domain.Folder, id string) int {
	return slices.IndexFunc(folders, func(f domain.Folder) bool { return f.ID == id })
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
