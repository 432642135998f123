package app

import (
	"context"
	"sort"
	"time"

	"unihelp/internal/ai"
	"unihelp/internal/model"
	"unihelp/internal/storage"
)

type fakeMaterialStore struct {
	items  map[uint]*model.Material
	nextID uint
}

func newFakeMaterialStore() *fakeMaterialStore {
	return &fakeMaterialStore{items: make(map[uint]*model.Material)}
}

func (f *fakeMaterialStore) Create(m *model.Material) error {
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now()
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMaterialStore) GetByID(id uint) (*model.Material, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaterialStore) ListByOwner(ownerID uint) ([]model.Material, error) {
	var out []model.Material
	for _, m := range f.items {
		if m.OwnerID == ownerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMaterialStore) ListByStatus(status string) ([]model.Material, error) {
	var out []model.Material
	for _, m := range f.items {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMaterialStore) Update(m *model.Material) error {
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMaterialStore) Delete(id uint) error {
	delete(f.items, id)
	return nil
}

type fakeFragmentStore struct {
	items  map[uint]*model.KnowledgeFragment
	nextID uint
}

func newFakeFragmentStore() *fakeFragmentStore {
	return &fakeFragmentStore{items: make(map[uint]*model.KnowledgeFragment)}
}

func (f *fakeFragmentStore) Create(fr *model.KnowledgeFragment) error {
	f.nextID++
	fr.ID = f.nextID
	var maxKey int64
	for _, item := range f.items {
		if item.OrderKey > maxKey {
			maxKey = item.OrderKey
		}
	}
	fr.OrderKey = maxKey + 1
	fr.CreatedAt = time.Now()
	fr.UpdatedAt = fr.CreatedAt
	cp := *fr
	f.items[fr.ID] = &cp
	return nil
}

func (f *fakeFragmentStore) GetByID(id uint) (*model.KnowledgeFragment, error) {
	fr, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *fr
	return &cp, nil
}

func (f *fakeFragmentStore) ListOrdered() ([]model.KnowledgeFragment, error) {
	out := make([]model.KnowledgeFragment, 0, len(f.items))
	for _, fr := range f.items {
		out = append(out, *fr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderKey < out[j].OrderKey })
	return out, nil
}

func (f *fakeFragmentStore) Update(fr *model.KnowledgeFragment) error {
	fr.UpdatedAt = time.Now()
	cp := *fr
	f.items[fr.ID] = &cp
	return nil
}

func (f *fakeFragmentStore) Delete(id uint) error {
	delete(f.items, id)
	return nil
}

type fakeFileStore struct {
	files map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (f *fakeFileStore) Save(name string, data []byte) (string, error) {
	ref := "ref-" + name
	f.files[ref] = data
	return ref, nil
}

func (f *fakeFileStore) Read(ref string) ([]byte, error) {
	data, ok := f.files[ref]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return data, nil
}

func (f *fakeFileStore) Delete(ref string) error {
	if _, ok := f.files[ref]; !ok {
		return storage.ErrFileNotFound
	}
	delete(f.files, ref)
	return nil
}

type fakeChatSessionStore struct {
	items  map[uint]*model.ChatSession
	nextID uint
}

func newFakeChatSessionStore() *fakeChatSessionStore {
	return &fakeChatSessionStore{items: make(map[uint]*model.ChatSession)}
}

func (f *fakeChatSessionStore) Create(cs *model.ChatSession) error {
	f.nextID++
	cs.ID = f.nextID
	cp := *cs
	f.items[cs.ID] = &cp
	return nil
}

func (f *fakeChatSessionStore) ListByUserID(userID uint) ([]model.ChatSession, error) {
	var out []model.ChatSession
	for _, cs := range f.items {
		if cs.UserID == userID {
			out = append(out, *cs)
		}
	}
	return out, nil
}

func (f *fakeChatSessionStore) GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error) {
	cs, ok := f.items[sessionID]
	if !ok || cs.UserID != userID {
		return nil, nil
	}
	cp := *cs
	return &cp, nil
}

func (f *fakeChatSessionStore) DeleteByIDAndUserID(sessionID, userID uint) error {
	cs, ok := f.items[sessionID]
	if ok && cs.UserID == userID {
		delete(f.items, sessionID)
	}
	return nil
}

type fakeMessageStore struct {
	messages []model.Message
}

func (f *fakeMessageStore) ListBySessionID(sessionID uint, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) DeleteBySessionID(sessionID uint) error {
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.SessionID != sessionID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

type fakePublisher struct {
	published []model.Message
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, msg model.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeModelClient struct {
	reply string
	err   error
	calls int
	seen  [][]ai.ChatMessage
}

func (f *fakeModelClient) Complete(ctx context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.seen = append(f.seen, messages)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
