package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

func TestGetAuditLogsAppliesFilters(t *testing.T) {
	actorID := uuid.New()
	audit := &stubAuditRepo{entries: []model.AuditLog{
		{ID: uuid.New(), UserID: &actorID, Action: model.ActionLogin, EntityID: actorID.String()},
		{ID: uuid.New(), UserID: &actorID, Action: model.ActionAssignOrder, EntityID: uuid.New().String()},
		{ID: uuid.New(), Action: model.ActionLoginFailed, EntityName: "intruso@taller.com"},
	}}
	svc := NewAuditService(audit)

	filters := repository.AuditFilters{Action: model.ActionLogin, UserID: actorID.String()}
	logs, total, err := svc.GetAuditLogs(context.Background(), filters, 1, 20)
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}

	if audit.lastFilters != filters {
		t.Errorf("repository received filters %+v, want %+v", audit.lastFilters, filters)
	}
	if total != 1 || len(logs) != 1 {
		t.Fatalf("got %d logs (total %d), want 1", len(logs), total)
	}
	if logs[0].Action != model.ActionLogin {
		t.Errorf("action = %q, want %q", logs[0].Action, model.ActionLogin)
	}
	if logs[0].UserID != actorID.String() {
		t.Errorf("user_id = %q, want %q", logs[0].UserID, actorID.String())
	}
}

func TestGetAuditLogsAnonymousEvents(t *testing.T) {
	audit := &stubAuditRepo{entries: []model.AuditLog{
		{ID: uuid.New(), Action: model.ActionLoginFailed, EntityName: "intruso@taller.com"},
	}}
	svc := NewAuditService(audit)

	logs, _, err := svc.GetAuditLogs(context.Background(), repository.AuditFilters{}, 1, 20)
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	if logs[0].UserName != "System" {
		t.Errorf("user_name = %q, want System", logs[0].UserName)
	}
	if logs[0].UserID != "" {
		t.Errorf("user_id = %q, want empty", logs[0].UserID)
	}
}
