package report

import (
	"html/template"
	"io"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/model"
)

const DefaultParticipant = "Participant"

type Certificate struct {
	Participant string
	EventName   string
	Date        string
	Location    string
	IssuedOn    string
}

func NewCertificate(e model.EnrolledEvent, participant string, issued time.Time) Certificate {
	if strings.TrimSpace(participant) == "" {
		participant = DefaultParticipant
	}

	return Certificate{
		Participant: participant,
		EventName:   e.Name,
		Date:        e.Date,
		Location:    e.Location,
		IssuedOn:    issued.UTC().Format("2006-01-02"),
	}
}

var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Participation Certificate - {{.EventName}}</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 40px; border: 20px solid #4338ca; }
      .certificate { text-align: center; color: #1f2937; }
      .header { font-size: 32px; color: #4338ca; margin-bottom: 30px; font-weight: bold; }
      .title { font-size: 46px; font-weight: bold; text-transform: uppercase; margin: 20px 0; color: #1e293b; }
      .event { font-size: 30px; }
      .name { font-size: 36px; font-weight: bold; margin: 30px 0; color: #1e293b; }
      .description { font-size: 20px; margin: 30px 0; }
      .event-details { margin: 40px 0; font-size: 18px; }
      .date { font-size: 18px; margin-top: 50px; }
      .signature { margin-top: 80px; display: flex; justify-content: space-between; }
      .signature div { width: 40%; }
      .signature-line { border-top: 1px solid #1f2937; margin-top: 10px; padding-top: 10px; }
      @media print { body { -webkit-print-color-adjust: exact; print-color-adjust: exact; } }
    </style>
  </head>
  <body onload="window.print()">
    <div class="certificate">
      <div class="header">CERTIFICATE OF PARTICIPATION</div>
      <div class="title">This certifies that</div>
      <div class="name">{{.Participant}}</div>
      <div class="description">has successfully participated in</div>
      <div class="title event">{{.EventName}}</div>
      <div class="event-details">Held on {{.Date}} at {{.Location}}</div>
      <div class="date">Issued on: {{.IssuedOn}}</div>
      <div class="signature">
        <div><div class="signature-line">Event Organizer</div></div>
        <div><div class="signature-line">Company Director</div></div>
      </div>
    </div>
  </body>
</html>
`))

func WriteCertificate(w io.Writer, c Certificate) error {
	return certificateTmpl.Execute(w, c)
}
