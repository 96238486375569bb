// Package notification định nghĩa các loại sự kiện thông báo và template tương ứng.
package notification

// Domain constants - Phân loại theo chức năng/lĩnh vực
const (
	DomainOrganization = "organization" // Tổ chức, thành viên
	DomainUser         = "user"         // Người dùng, đăng nhập
)

// Event types
const (
	EventMemberAdded = "organization.member_added" // Người dùng được thêm vào tổ chức
)
