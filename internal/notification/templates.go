package notification

import (
	"fmt"
	"html"
	"strings"

	"story_studio/internal/delivery/channels"
)

// MemberAdded render email báo người dùng vừa được thêm vào tổ chức
func MemberAdded(memberName, organizationName, inviterName, frontendURL string) channels.RenderedTemplate {
	if memberName == "" {
		memberName = "bạn"
	}
	if inviterName == "" {
		inviterName = "Một thành viên"
	}

	content := fmt.Sprintf(
		"<p>Xin chào %s,</p><p>%s đã thêm bạn vào tổ chức <strong>%s</strong>.</p>",
		html.EscapeString(memberName),
		html.EscapeString(inviterName),
		html.EscapeString(organizationName),
	)

	tpl := channels.RenderedTemplate{
		Subject: fmt.Sprintf("Bạn đã được thêm vào tổ chức %s", organizationName),
		Content: content,
	}
	if frontendURL != "" {
		tpl.CTAs = append(tpl.CTAs, channels.RenderedCTA{
			Label: "Mở Story Studio",
			URL:   strings.TrimRight(frontendURL, "/") + "/projects",
		})
	}
	return tpl
}
