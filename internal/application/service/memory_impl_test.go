package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/game-hipe/remembering/internal/domain/constant"
	"github.com/game-hipe/remembering/internal/domain/entity"
	appErrors "github.com/game-hipe/remembering/internal/pkg/errors"
)

func newTestMemoryService(t *testing.T) (MemoryService, *fakeUserRepo, *fakeMemoryRepo) {
	t.Helper()
	userRepo := newFakeUserRepo(&entity.User{ChatID: "chat-a", Name: "A"})
	memoryRepo := newFakeMemoryRepo()
	return NewMemoryService(memoryRepo, userRepo, nopLogger{}), userRepo, memoryRepo
}

func TestBeginMemoryValidatesTitle(t *testing.T) {
	svc, userRepo, _ := newTestMemoryService(t)
	ctx := context.Background()

	if err := svc.BeginMemory(ctx, "chat-a", "   "); !errors.Is(err, appErrors.ErrInvalidTitle) {
		t.Fatalf("blank title: got %v, want ErrInvalidTitle", err)
	}
	if err := svc.BeginMemory(ctx, "chat-a", strings.Repeat("x", 256)); !errors.Is(err, appErrors.ErrInvalidTitle) {
		t.Fatalf("overlong title: got %v, want ErrInvalidTitle", err)
	}

	if err := svc.BeginMemory(ctx, "chat-a", "groceries"); err != nil {
		t.Fatalf("valid title rejected: %v", err)
	}
	user, err := userRepo.FindByChatID(ctx, "chat-a")
	if err != nil {
		t.Fatalf("FindByChatID: %v", err)
	}
	if user.DraftID == nil {
		t.Fatalf("draft pointer not set")
	}
	if user.GetStatus() != constant.StatusAwaitingContent {
		t.Fatalf("status = %d, want StatusAwaitingContent", user.Status)
	}
}

func TestBeginMemoryUnknownUser(t *testing.T) {
	svc, _, _ := newTestMemoryService(t)
	if err := svc.BeginMemory(context.Background(), "stranger", "title"); !errors.Is(err, appErrors.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestSetContentValidates(t *testing.T) {
	svc, _, _ := newTestMemoryService(t)
	ctx := context.Background()

	if err := svc.BeginMemory(ctx, "chat-a", "title"); err != nil {
		t.Fatalf("BeginMemory: %v", err)
	}
	if err := svc.SetContent(ctx, "chat-a", strings.Repeat("x", 2049)); !errors.Is(err, appErrors.ErrInvalidContent) {
		t.Fatalf("overlong content: got %v, want ErrInvalidContent", err)
	}
	if err := svc.SetContent(ctx, "chat-a", "buy milk and bread"); err != nil {
		t.Fatalf("valid content rejected: %v", err)
	}
}

func TestSetContentWithoutDraft(t *testing.T) {
	svc, _, _ := newTestMemoryService(t)
	if err := svc.SetContent(context.Background(), "chat-a", "content"); !errors.Is(err, appErrors.ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
}

func TestFinishDraftResetsUser(t *testing.T) {
	svc, userRepo, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()

	if err := svc.BeginMemory(ctx, "chat-a", "title"); err != nil {
		t.Fatalf("BeginMemory: %v", err)
	}
	if err := svc.SetContent(ctx, "chat-a", "content"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if err := svc.FinishDraft(ctx, "chat-a"); err != nil {
		t.Fatalf("FinishDraft: %v", err)
	}

	user, _ := userRepo.FindByChatID(ctx, "chat-a")
	if user.DraftID != nil || user.GetStatus() != constant.StatusInitial {
		t.Fatalf("user not reset after finish: draft=%v status=%d", user.DraftID, user.Status)
	}
	memories, _ := memoryRepo.FindByUserID(ctx, user.ID)
	if len(memories) != 1 || memories[0].Kind != constant.KindText.String() {
		t.Fatalf("unexpected memories after finish: %+v", memories)
	}
}

func TestCancelDraftDeletesDraft(t *testing.T) {
	svc, userRepo, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()

	if err := svc.BeginMemory(ctx, "chat-a", "title"); err != nil {
		t.Fatalf("BeginMemory: %v", err)
	}
	if err := svc.CancelDraft(ctx, "chat-a"); err != nil {
		t.Fatalf("CancelDraft: %v", err)
	}

	user, _ := userRepo.FindByChatID(ctx, "chat-a")
	if user.DraftID != nil || user.GetStatus() != constant.StatusInitial {
		t.Fatalf("user not reset after cancel")
	}
	memories, _ := memoryRepo.FindByUserID(ctx, user.ID)
	if len(memories) != 0 {
		t.Fatalf("draft memory not deleted: %+v", memories)
	}
}

func TestAttachMediaValidatesPath(t *testing.T) {
	svc, _, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()
	dir := t.TempDir()

	if err := svc.BeginMemory(ctx, "chat-a", "title"); err != nil {
		t.Fatalf("BeginMemory: %v", err)
	}
	if err := svc.SetContent(ctx, "chat-a", "content"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}

	missing := filepath.Join(dir, "missing.jpg")
	if err := svc.AttachMedia(ctx, "chat-a", constant.KindPhoto, missing); !errors.Is(err, appErrors.ErrInvalidMedia) {
		t.Fatalf("missing file: got %v, want ErrInvalidMedia", err)
	}

	textFile := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(textFile, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := svc.AttachMedia(ctx, "chat-a", constant.KindPhoto, textFile); !errors.Is(err, appErrors.ErrInvalidMedia) {
		t.Fatalf("wrong extension: got %v, want ErrInvalidMedia", err)
	}

	photo := filepath.Join(dir, "pic.jpg")
	if err := os.WriteFile(photo, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := svc.AttachMedia(ctx, "chat-a", constant.KindPhoto, photo); err != nil {
		t.Fatalf("valid photo rejected: %v", err)
	}

	memories, _ := memoryRepo.FindByUserID(ctx, 1)
	if len(memories) != 1 {
		t.Fatalf("expected 1 memory, got %d", len(memories))
	}
	if memories[0].Kind != constant.KindPhoto.String() || memories[0].MediaPath == nil || *memories[0].MediaPath != photo {
		t.Fatalf("media not attached: %+v", memories[0])
	}
}

func TestSnoozeMovesRemindTime(t *testing.T) {
	svc, userRepo, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()
	now := time.Now()

	user, _ := userRepo.FindByChatID(ctx, "chat-a")
	id, err := memoryRepo.Create(ctx, &entity.Memory{
		UserID: user.ID, Title: "t", Content: "c", Kind: "text",
		RemindAt: now.Add(-10 * time.Second),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Snooze(ctx, "chat-a", id, 3600*time.Second); err != nil {
		t.Fatalf("Snooze: %v", err)
	}

	memory, err := memoryRepo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	want := now.Add(3590 * time.Second)
	if diff := memory.RemindAt.Sub(want); diff < -time.Second || diff > time.Second {
		t.Fatalf("RemindAt = %v, want about %v", memory.RemindAt, want)
	}
	if memory.Due(now) {
		t.Fatalf("snoozed memory must not be due immediately")
	}
}

func TestSnoozeRejectsForeignMemory(t *testing.T) {
	svc, userRepo, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()

	other := &entity.User{ChatID: "chat-b"}
	if err := userRepo.Create(ctx, other); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	id, _ := memoryRepo.Create(ctx, &entity.Memory{UserID: other.ID, Title: "t", Content: "c", Kind: "text", RemindAt: time.Now()})

	if err := svc.Snooze(ctx, "chat-a", id, time.Hour); !errors.Is(err, appErrors.ErrNotOwner) {
		t.Fatalf("got %v, want ErrNotOwner", err)
	}
}

func TestDeleteMemory(t *testing.T) {
	svc, userRepo, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()

	user, _ := userRepo.FindByChatID(ctx, "chat-a")
	id, _ := memoryRepo.Create(ctx, &entity.Memory{UserID: user.ID, Title: "t", Content: "c", Kind: "text", RemindAt: time.Now()})

	if err := svc.DeleteMemory(ctx, "chat-a", id); err != nil {
		t.Fatalf("DeleteMemory: %v", err)
	}
	if err := svc.DeleteMemory(ctx, "chat-a", id); !errors.Is(err, appErrors.ErrMemoryNotFound) {
		t.Fatalf("second delete: got %v, want ErrMemoryNotFound", err)
	}
}

func TestCleanupOlderThan(t *testing.T) {
	svc, userRepo, memoryRepo := newTestMemoryService(t)
	ctx := context.Background()
	now := time.Now()

	user, _ := userRepo.FindByChatID(ctx, "chat-a")
	old, _ := memoryRepo.Create(ctx, &entity.Memory{UserID: user.ID, Title: "old", Content: "c", Kind: "text", RemindAt: now.Add(-48 * time.Hour)})
	fresh, _ := memoryRepo.Create(ctx, &entity.Memory{UserID: user.ID, Title: "fresh", Content: "c", Kind: "text", RemindAt: now.Add(-time.Hour)})

	if err := svc.CleanupOlderThan(ctx, 24*time.Hour); err != nil {
		t.Fatalf("CleanupOlderThan: %v", err)
	}
	if _, err := memoryRepo.FindByID(ctx, old); err == nil {
		t.Fatalf("old memory survived cleanup")
	}
	if _, err := memoryRepo.FindByID(ctx, fresh); err != nil {
		t.Fatalf("fresh memory deleted by cleanup: %v", err)
	}
}
