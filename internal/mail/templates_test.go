package mail_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growthos/growthos/internal/mail"
)

func TestReportApprovedTemplate(t *testing.T) {
	msg, err := mail.ReportApproved(mail.ReportApprovedData{
		ReportTitle:   "Week 34",
		WorkspaceName: "Acme",
		ApproverName:  "Dana",
		ShareURL:      "https://app.example.com/shared/share_abc",
	})
	require.NoError(t, err)
	require.Equal(t, "Report approved: Week 34", msg.Subject)
	require.True(t, strings.Contains(msg.HTMLBody, "Acme"))
	require.True(t, strings.Contains(msg.HTMLBody, "share_abc"))
}

func TestExperimentDecidedTemplateEscapesHTML(t *testing.T) {
	msg, err := mail.ExperimentDecided(mail.ExperimentDecidedData{
		ExperimentName: "Landing <script>",
		WorkspaceName:  "Acme",
		Decision:       "scale",
	})
	require.NoError(t, err)
	require.False(t, strings.Contains(msg.HTMLBody, "<script>"))
	require.True(t, strings.Contains(msg.HTMLBody, "scale"))
}
