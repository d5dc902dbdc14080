package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/models"
)

func TestThreadPairIsSymmetric(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	a := createUser(t, db, models.RoleCouple)
	b := createUser(t, db, models.RoleWedflexer)

	first, err := svc.OpenThread(a.ID, b.ID, nil)
	if err != nil {
		t.Fatalf("open a->b: %v", err)
	}
	second, err := svc.OpenThread(b.ID, a.ID, nil)
	if err != nil {
		t.Fatalf("open b->a: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("thread ids differ: %v vs %v", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.MessageThread{}).Count(&count)
	if count != 1 {
		t.Fatalf("threads = %d, want 1", count)
	}
}

func TestThreadScopedByRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	a := createUser(t, db, models.RoleCouple)
	b := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, a.ID, nil)

	general, err := svc.OpenThread(a.ID, b.ID, nil)
	if err != nil {
		t.Fatalf("general: %v", err)
	}
	scoped, err := svc.OpenThread(a.ID, b.ID, &request.ID)
	if err != nil {
		t.Fatalf("scoped: %v", err)
	}
	if general.ID == scoped.ID {
		t.Fatal("request-scoped thread collapsed into the general one")
	}

	again, err := svc.OpenThread(b.ID, a.ID, &request.ID)
	if err != nil {
		t.Fatalf("scoped again: %v", err)
	}
	if again.ID != scoped.ID {
		t.Fatal("same request pair produced a second thread")
	}
}

func TestOpenThreadValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	a := createUser(t, db, models.RoleCouple)

	if _, err := svc.OpenThread(a.ID, uuid.Nil, nil); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("nil other err = %v, want InvalidInput", err)
	}
	if _, err := svc.OpenThread(a.ID, a.ID, nil); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("self err = %v, want InvalidInput", err)
	}
}

func TestListConversationByPair(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	a := createUser(t, db, models.RoleCouple)
	b := createUser(t, db, models.RoleWedflexer)
	c := createUser(t, db, models.RoleWedflexer)

	// No thread yet: an empty conversation, not an error.
	msgs, err := svc.ListConversation(a.ID, b.ID, nil)
	if err != nil {
		t.Fatalf("empty conversation: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("messages = %d, want 0", len(msgs))
	}
	var count int64
	db.Model(&models.MessageThread{}).Count(&count)
	if count != 0 {
		t.Fatal("read created a thread")
	}

	if _, err := svc.Send(a.ID, b.ID, nil, "hello", ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Both argument orders resolve to the same conversation.
	forward, err := svc.ListConversation(a.ID, b.ID, nil)
	if err != nil {
		t.Fatalf("a->b: %v", err)
	}
	reversed, err := svc.ListConversation(b.ID, a.ID, nil)
	if err != nil {
		t.Fatalf("b->a: %v", err)
	}
	if len(forward) != 1 || len(reversed) != 1 {
		t.Fatalf("forward = %d, reversed = %d, want 1 each", len(forward), len(reversed))
	}
	if forward[0].ID != reversed[0].ID {
		t.Fatal("swapped arguments resolved a different conversation")
	}

	// A request-scoped read does not see the general conversation.
	request := createOpenRequest(t, db, a.ID, nil)
	scoped, err := svc.ListConversation(a.ID, b.ID, &request.ID)
	if err != nil {
		t.Fatalf("scoped: %v", err)
	}
	if len(scoped) != 0 {
		t.Fatalf("scoped messages = %d, want 0", len(scoped))
	}

	// A third party's pair with either participant stays empty.
	other, err := svc.ListConversation(c.ID, a.ID, nil)
	if err != nil {
		t.Fatalf("third party: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("third party messages = %d, want 0", len(other))
	}

	if _, err := svc.ListConversation(a.ID, uuid.Nil, nil); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("nil other err = %v, want InvalidInput", err)
	}
}

func TestSendAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	a := createUser(t, db, models.RoleCouple)
	b := createUser(t, db, models.RoleWedflexer)

	if _, err := svc.Send(a.ID, b.ID, nil, "", ""); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("empty send err = %v, want InvalidInput", err)
	}

	first, err := svc.Send(a.ID, b.ID, nil, "hi there", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(b.ID, a.ID, nil, "", "files/quote.pdf"); err != nil {
		t.Fatalf("file send: %v", err)
	}

	msgs, err := svc.ListMessages(a.ID, first.ThreadID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Body != "hi there" {
		t.Fatalf("first message = %q, oldest should come first", msgs[0].Body)
	}
	if msgs[1].FileURL != "files/quote.pdf" {
		t.Fatalf("second message file = %q", msgs[1].FileURL)
	}

	stranger := createUser(t, db, models.RoleCouple)
	if _, err := svc.ListMessages(stranger.ID, first.ThreadID); apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("stranger err = %v, want Forbidden", err)
	}

	threads, err := svc.ListThreads(b.ID)
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
}
