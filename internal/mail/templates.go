package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var reportApprovedTmpl = template.Must(template.New("report_approved").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Report approved: {{.ReportTitle}}</h2>
  <p>Your weekly report for <strong>{{.WorkspaceName}}</strong> was approved by {{.ApproverName}}.</p>
  <p>Share link: <a href="{{.ShareURL}}">{{.ShareURL}}</a></p>
  <p style="color: #616e7c; font-size: 12px;">Sent by GrowthOS</p>
</body>
</html>`))

var experimentDecidedTmpl = template.Must(template.New("experiment_decided").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Decision recorded: {{.ExperimentName}}</h2>
  <p>The experiment in <strong>{{.WorkspaceName}}</strong> was decided: <strong>{{.Decision}}</strong>.</p>
  {{if .Rationale}}<p>Rationale: {{.Rationale}}</p>{{end}}
  <p style="color: #616e7c; font-size: 12px;">Sent by GrowthOS</p>
</body>
</html>`))

// ReportApprovedData fills the report approval notification.
type ReportApprovedData struct {
	ReportTitle   string
	WorkspaceName string
	ApproverName  string
	ShareURL      string
}

// ReportApproved renders the approval notification.
func ReportApproved(data ReportApprovedData) (Message, error) {
	var body bytes.Buffer
	if err := reportApprovedTmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("mail: render report approved: %w", err)
	}
	return Message{
		Subject:  fmt.Sprintf("Report approved: %s", data.ReportTitle),
		HTMLBody: body.String(),
	}, nil
}

// ExperimentDecidedData fills the experiment decision notification.
type ExperimentDecidedData struct {
	ExperimentName string
	WorkspaceName  string
	Decision       string
	Rationale      string
}

// ExperimentDecided renders the decision notification.
func ExperimentDecided(data ExperimentDecidedData) (Message, error) {
	var body bytes.Buffer
	if err := experimentDecidedTmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("mail: render experiment decided: %w", err)
	}
	return Message{
		Subject:  fmt.Sprintf("Experiment decided: %s", data.ExperimentName),
		HTMLBody: body.String(),
	}, nil
}
