package site

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`(https?://[^\s<>"]+|www\.[^\s<>"]+)`)

// Linkify turns bare URLs into anchors. It expects already-escaped text, so
// the quote and angle-bracket exclusions in the pattern hold.
func Linkify(text string) string {
	return urlRe.ReplaceAllStringFunc(text, func(url string) string {
		href := url
		if !strings.HasPrefix(url, "http") {
			href = "https://" + url
		}
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, href, url)
	})
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f5f5f5;
        }
        .container { max-width: 1000px; margin: 0 auto; background: white; min-height: 100vh; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        .header {
            background: linear-gradient(135deg, #4285f4 0%, #357ae8 100%);
            color: white;
            padding: 30px 40px;
        }
        .header h1 { font-size: 26px; margin-bottom: 20px; line-height: 1.3; }
        .meta { font-size: 14px; opacity: 0.95; background: rgba(255,255,255,0.1); padding: 15px; border-radius: 5px; }
        .meta div { margin: 5px 0; }
        .meta strong { opacity: 0.8; }
        .content { padding: 40px; }
        .back {
            display: inline-block;
            margin-bottom: 30px;
            padding: 12px 24px;
            background: #4285f4;
            color: white;
            text-decoration: none;
            border-radius: 6px;
            transition: background 0.2s;
            font-weight: 500;
        }
        .back:hover { background: #357ae8; }
        .body-text {
            white-space: pre-wrap;
            background: #f9f9f9;
            padding: 25px;
            border-radius: 8px;
            border-left: 4px solid #4285f4;
            margin: 20px 0;
            font-size: 15px;
            line-height: 1.7;
        }
        .body-text a { color: #1a73e8; text-decoration: none; border-bottom: 1px solid #1a73e8; }
        .body-text a:hover { background: #e8f0fe; }
        .body-html {
            padding: 25px;
            background: white;
            border: 1px solid #e0e0e0;
            border-radius: 8px;
            margin: 20px 0;
        }
        .body-html a { color: #1a73e8; }
        .attachments {
            margin-top: 30px;
            padding: 20px;
            background: #fff3cd;
            border-radius: 8px;
            border-left: 4px solid #ffc107;
        }
        .attachments h3 { margin-bottom: 15px; color: #856404; font-size: 18px; }
        .attachments ul { list-style: none; }
        .attachments li {
            padding: 12px 0;
            border-bottom: 1px solid #ffeaa7;
            transition: background 0.2s;
        }
        .attachments li:hover { background: rgba(255,193,7,0.1); }
        .attachments li:last-child { border-bottom: none; }
        .attachments a { color: #004085; text-decoration: none; font-weight: 500; }
        .attachments a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Subject}}</h1>
            <div class="meta">
                <div><strong>From:</strong> {{.From}}</div>
                <div><strong>To:</strong> {{.To}}</div>
                <div><strong>Date:</strong> {{.Date}}</div>
            </div>
        </div>
        <div class="content">
            <a href="../index.html" class="back">&larr; Back to All Emails</a>
            {{if .IsHTML}}<div class="body-html">{{.BodyHTML}}</div>{{else}}<div class="body-text">{{.BodyText}}</div>{{end}}
            {{if .Attachments}}<div class="attachments"><h3>&#128206; Attachments</h3><ul>{{range .Attachments}}<li><a href="{{.Path}}" download>{{.Name}} ({{.Size}})</a></li>{{end}}</ul></div>{{end}}
        </div>
    </div>
</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mail Archive</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background: #f5f5f5;
        }
        .header {
            background: linear-gradient(135deg, #4285f4 0%, #357ae8 100%);
            color: white;
            padding: 40px 30px;
            text-align: center;
            box-shadow: 0 2px 8px rgba(0,0,0,0.15);
        }
        .header h1 { font-size: 36px; margin-bottom: 15px; font-weight: 600; }
        .stats { font-size: 15px; opacity: 0.95; margin-top: 10px; }
        .search-container { max-width: 900px; margin: 40px auto 30px; padding: 0 20px; }
        .search-box {
            width: 100%;
            padding: 16px 24px;
            font-size: 16px;
            border: 2px solid #ddd;
            border-radius: 50px;
            outline: none;
            transition: all 0.3s;
            box-shadow: 0 2px 6px rgba(0,0,0,0.05);
        }
        .search-box:focus {
            border-color: #4285f4;
            box-shadow: 0 4px 12px rgba(66,133,244,0.2);
        }
        .container { max-width: 900px; margin: 0 auto 50px; padding: 0 20px; }
        .email-list { list-style: none; }
        .email-item {
            background: white;
            margin-bottom: 15px;
            padding: 24px;
            border-radius: 12px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.08);
            transition: all 0.2s;
            cursor: pointer;
            border: 1px solid #f0f0f0;
        }
        .email-item:hover {
            box-shadow: 0 6px 16px rgba(0,0,0,0.12);
            transform: translateY(-2px);
            border-color: #4285f4;
        }
        .email-subject {
            font-size: 18px;
            font-weight: 600;
            color: #202124;
            margin-bottom: 10px;
            line-height: 1.4;
        }
        .email-meta {
            font-size: 14px;
            color: #5f6368;
            margin-bottom: 10px;
        }
        .email-meta strong { color: #202124; }
        .email-preview {
            font-size: 14px;
            color: #80868b;
            margin-top: 12px;
            line-height: 1.5;
            overflow: hidden;
            text-overflow: ellipsis;
            display: -webkit-box;
            -webkit-line-clamp: 2;
            -webkit-box-orient: vertical;
        }
        .no-results {
            text-align: center;
            padding: 60px 20px;
            color: #5f6368;
            font-size: 16px;
        }
        .attachment-badge {
            display: inline-block;
            background: #fff3cd;
            color: #856404;
            padding: 4px 10px;
            border-radius: 4px;
            font-size: 12px;
            margin-left: 10px;
            font-weight: 500;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>&#128231; Mail Archive</h1>
        <div class="stats">
            <span id="total-emails">{{.Total}}</span> emails archived &bull;
            <span id="filtered-count">{{.Total}}</span> showing
        </div>
    </div>

    <div class="search-container">
        <input type="text" id="search" class="search-box" placeholder="Search emails by subject, sender, or content...">
    </div>

    <div class="container">
        <ul class="email-list" id="email-list"></ul>
        <div class="no-results" id="no-results" style="display: none;">
            No emails found matching your search.
        </div>
    </div>

    <script>
        const emailsData = {{.Emails}};
        const emailList = document.getElementById('email-list');
        const searchBox = document.getElementById('search');
        const noResults = document.getElementById('no-results');
        const filteredCount = document.getElementById('filtered-count');

        function escapeHtml(text) {
            const div = document.createElement('div');
            div.textContent = text;
            return div.innerHTML;
        }

        function renderEmails(emails) {
            if (emails.length === 0) {
                emailList.style.display = 'none';
                noResults.style.display = 'block';
                filteredCount.textContent = '0';
                return;
            }

            emailList.style.display = 'block';
            noResults.style.display = 'none';
            filteredCount.textContent = emails.length;

            const emailsHTML = emails.map(email => {
                const attachmentBadge = email.attachments && email.attachments.length > 0
                    ? '<span class="attachment-badge">&#128206; ' + email.attachments.length + '</span>'
                    : '';

                return '<li class="email-item" onclick="window.location.href=\'emails/' + email.id + '.html\'">' +
                    '<div class="email-subject">' + escapeHtml(email.subject) + attachmentBadge + '</div>' +
                    '<div class="email-meta"><strong>' + escapeHtml(email.from_name) + '</strong> &bull; ' + escapeHtml(email.date) + '</div>' +
                    '<div class="email-preview">' + escapeHtml(email.preview) + '</div>' +
                    '</li>';
            }).join('');

            emailList.innerHTML = emailsHTML;
        }

        function searchEmails(query) {
            if (!query.trim()) {
                renderEmails(emailsData);
                return;
            }

            const lowerQuery = query.toLowerCase();
            const filtered = emailsData.filter(email =>
                email.subject.toLowerCase().includes(lowerQuery) ||
                email.from.toLowerCase().includes(lowerQuery) ||
                email.from_name.toLowerCase().includes(lowerQuery) ||
                email.to.toLowerCase().includes(lowerQuery) ||
                email.preview.toLowerCase().includes(lowerQuery)
            );

            renderEmails(filtered);
        }

        searchBox.addEventListener('input', (e) => searchEmails(e.target.value));

        renderEmails(emailsData);
    </script>
</body>
</html>
`))
