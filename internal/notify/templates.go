package notify

import (
	"fmt"
	"html"
	"strings"
)

// RenderEmail produces the HTML body for an email job. The admin template
// lists every matching document with its subject; the subject template omits
// the subject column since all rows belong to one subject.
func RenderEmail(job EmailJob) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 680px; margin: 0 auto; padding: 20px; }\n")
	b.WriteString("table { border-collapse: collapse; width: 100%; margin: 16px 0; }\n")
	b.WriteString("th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #ddd; }\n")
	b.WriteString("th { color: #7f8c8d; font-weight: 600; font-size: 0.9em; }\n")
	b.WriteString(".lead { font-size: 1.05em; }\n")
	b.WriteString(".footer { margin-top: 24px; font-size: 0.9em; color: #7f8c8d; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")

	when := "tomorrow"
	if job.DaysUntilExpiry != 1 {
		when = fmt.Sprintf("in %d days", job.DaysUntilExpiry)
	}

	switch job.Template {
	case TemplateSubject:
		b.WriteString(fmt.Sprintf("<p class=\"lead\">The following document(s) registered to you expire %s:</p>\n", when))
	default:
		b.WriteString(fmt.Sprintf("<p class=\"lead\">The following document(s) in %s expire %s:</p>\n",
			html.EscapeString(job.TenantName), when))
	}

	b.WriteString("<table>\n<tr><th>Document</th>")
	if job.Template != TemplateSubject {
		b.WriteString("<th>Subject</th>")
	}
	b.WriteString("<th>Expiry date</th></tr>\n")

	for _, doc := range job.Documents {
		b.WriteString("<tr>")
		b.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(doc.TypeName)))
		if job.Template != TemplateSubject {
			name := doc.SubjectName
			if name == "" {
				name = "&mdash;"
			} else {
				name = html.EscapeString(name)
			}
			b.WriteString(fmt.Sprintf("<td>%s</td>", name))
		}
		b.WriteString(fmt.Sprintf("<td>%s</td>", doc.ExpiryDate.Format("Jan 2, 2006")))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")

	b.WriteString("<div class=\"footer\">Sent by ComplyDesk document expiry reminders.</div>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}
