package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// UserDirectory resolves a user id to a deliverable address.
type UserDirectory interface {
	UserEmail(ctx context.Context, userID string) (name, email string, err error)
}

// WorkspaceDirectory resolves a workspace id to its display name.
type WorkspaceDirectory interface {
	WorkspaceName(ctx context.Context, workspaceID string) (string, error)
}

// Dispatcher renders and sends the transition notifications. Every method
// is best-effort: failures are logged and swallowed so the triggering
// request still succeeds.
type Dispatcher struct {
	mailer     Mailer
	users      UserDirectory
	workspaces WorkspaceDirectory
	logger     *slog.Logger
	baseURL    string
}

// NewDispatcher constructs a dispatcher. baseURL prefixes share links.
func NewDispatcher(mailer Mailer, users UserDirectory, workspaces WorkspaceDirectory, logger *slog.Logger, baseURL string) *Dispatcher {
	return &Dispatcher{mailer: mailer, users: users, workspaces: workspaces, logger: logger, baseURL: baseURL}
}

// ReportApproved notifies the report owner.
func (d *Dispatcher) ReportApproved(ctx context.Context, workspaceID, ownerID, reportTitle, approverName, shareID string) {
	wsName, err := d.workspaces.WorkspaceName(ctx, workspaceID)
	if err != nil {
		d.logger.Warn("report approval notification skipped", slog.Any("error", err))
		return
	}
	_, email, err := d.users.UserEmail(ctx, ownerID)
	if err != nil {
		d.logger.Warn("report approval notification skipped", slog.Any("error", err))
		return
	}
	msg, err := ReportApproved(ReportApprovedData{
		ReportTitle:   reportTitle,
		WorkspaceName: wsName,
		ApproverName:  approverName,
		ShareURL:      fmt.Sprintf("%s/shared/%s", d.baseURL, shareID),
	})
	if err != nil {
		d.logger.Warn("report approval notification skipped", slog.Any("error", err))
		return
	}
	msg.To = email
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.Warn("report approval email failed", slog.Any("error", err))
	}
}

// ExperimentDecided notifies the experiment creator.
func (d *Dispatcher) ExperimentDecided(ctx context.Context, workspaceID, creatorID, experimentName, decision, rationale string) {
	wsName, err := d.workspaces.WorkspaceName(ctx, workspaceID)
	if err != nil {
		d.logger.Warn("experiment decision notification skipped", slog.Any("error", err))
		return
	}
	_, email, err := d.users.UserEmail(ctx, creatorID)
	if err != nil {
		d.logger.Warn("experiment decision notification skipped", slog.Any("error", err))
		return
	}
	msg, err := ExperimentDecided(ExperimentDecidedData{
		ExperimentName: experimentName,
		WorkspaceName:  wsName,
		Decision:       decision,
		Rationale:      rationale,
	})
	if err != nil {
		d.logger.Warn("experiment decision notification skipped", slog.Any("error", err))
		return
	}
	msg.To = email
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.Warn("experiment decision email failed", slog.Any("error", err))
	}
}
