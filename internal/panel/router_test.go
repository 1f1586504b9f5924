package panel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/systerlang/systerview/internal/diagram"
	"github.com/systerlang/systerview/internal/protocol"
)

func liveSession(t *testing.T, provider DiagramProvider) (*Session, *recordingSurface, *recordingNotifier, *recordingOpener) {
	t.Helper()
	deps, notifier, opener := testDeps(provider)
	m := NewManager(deps)
	s := m.CreateOrShow("file:///ws")
	surf := &recordingSurface{}
	if err := s.AttachSurface(surf); err != nil {
		t.Fatalf("AttachSurface: %v", err)
	}
	return s, surf, notifier, opener
}

func TestReadyTriggersWorkspaceRefresh(t *testing.T) {
	provider := &fakeProvider{data: &diagram.Data{}}
	s, surf, _, _ := liveSession(t, provider)

	s.HandleRaw(context.Background(), []byte(`{"type":"ready"}`))

	waitFor(t, func() bool { return len(surf.messages()) == 1 })
	if scopes := provider.requested(); len(scopes) != 1 || scopes[0] != "" {
		t.Errorf("expected whole-workspace scope, got %v", scopes)
	}
}

func TestReadyPrefersActiveDocument(t *testing.T) {
	provider := &fakeProvider{data: &diagram.Data{}}
	s, _, _, _ := liveSession(t, provider)

	s.DocumentActive(context.Background(), "file:///ws/m.kerml")
	waitFor(t, func() bool { return len(provider.requested()) == 1 })

	s.HandleRaw(context.Background(), []byte(`{"type":"ready"}`))
	waitFor(t, func() bool { return len(provider.requested()) == 2 })

	if scopes := provider.requested(); scopes[1] != "file:///ws/m.kerml" {
		t.Errorf("expected ready to refresh the active document, got %v", scopes)
	}
}

func TestRefreshMessageScoping(t *testing.T) {
	provider := &fakeProvider{data: &diagram.Data{}}
	s, _, _, _ := liveSession(t, provider)

	s.HandleRaw(context.Background(), []byte(`{"type":"refresh","uri":"file:///ws/a.sysml"}`))
	waitFor(t, func() bool { return len(provider.requested()) == 1 })

	s.HandleRaw(context.Background(), []byte(`{"type":"refresh"}`))
	waitFor(t, func() bool { return len(provider.requested()) == 2 })

	scopes := provider.requested()
	if scopes[0] != "file:///ws/a.sysml" {
		t.Errorf("scoped refresh: got %q", scopes[0])
	}
	if scopes[1] != "" {
		t.Errorf("workspace refresh: got %q", scopes[1])
	}
}

func TestNavigateOpensEditor(t *testing.T) {
	s, _, _, opener := liveSession(t, &fakeProvider{data: &diagram.Data{}})

	s.HandleRaw(context.Background(), []byte(`{"type":"navigate","uri":"file:///ws/m.sysml","position":{"line":3,"character":1}}`))

	opens := opener.all()
	if len(opens) != 1 {
		t.Fatalf("expected one editor open, got %d", len(opens))
	}
	if !strings.HasSuffix(opens[0], "m.sysml") {
		t.Errorf("path: got %q", opens[0])
	}
}

func TestNavigateMissingFieldsIsNoop(t *testing.T) {
	s, surf, _, opener := liveSession(t, &fakeProvider{data: &diagram.Data{}})

	raws := []string{
		`{"type":"navigate","position":{"line":1,"character":0}}`,
		`{"type":"navigate","uri":"file:///ws/m.sysml"}`,
		`{"type":"navigate"}`,
	}
	for _, raw := range raws {
		s.HandleRaw(context.Background(), []byte(raw))
	}

	if opens := opener.all(); len(opens) != 0 {
		t.Errorf("expected no documents opened, got %v", opens)
	}
	if msgs := surf.messages(); len(msgs) != 0 {
		t.Errorf("expected no wire traffic, got %d messages", len(msgs))
	}
}

func TestElementEditsSurfaceNotice(t *testing.T) {
	ops := []string{
		protocol.TypeCreateElement,
		protocol.TypeUpdateElement,
		protocol.TypeDeleteElement,
		protocol.TypeCreateRelationship,
	}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			provider := &fakeProvider{data: &diagram.Data{}}
			s, surf, notifier, _ := liveSession(t, provider)

			s.HandleRaw(context.Background(), []byte(`{"type":"`+op+`","payload":{"name":"X","whatever":[1,2]}}`))

			notices := notifier.all()
			if len(notices) != 1 {
				t.Fatalf("expected exactly one notice, got %d", len(notices))
			}
			if !strings.Contains(notices[0], "not implemented") {
				t.Errorf("notice: got %q", notices[0])
			}
			// No wire error, no model interaction.
			if msgs := surf.messages(); len(msgs) != 0 {
				t.Errorf("expected no wire messages, got %d", len(msgs))
			}
			if scopes := provider.requested(); len(scopes) != 0 {
				t.Errorf("expected no diagram requests, got %v", scopes)
			}
		})
	}
}

func TestUnknownTagIsIgnored(t *testing.T) {
	s, surf, notifier, opener := liveSession(t, &fakeProvider{data: &diagram.Data{}})

	s.HandleRaw(context.Background(), []byte(`{"type":"teleport","uri":"file:///x"}`))
	s.HandleRaw(context.Background(), []byte(`{broken`))

	time.Sleep(20 * time.Millisecond)
	if len(surf.messages()) != 0 || len(notifier.all()) != 0 || len(opener.all()) != 0 {
		t.Error("expected unrecognized and malformed messages to be silently ignored")
	}
}
