package authdto

// OrganizationCreateInput đầu vào tạo tổ chức
type OrganizationCreateInput struct {
	Name string `json:"name" validate:"required,min=1,max=200,no_xss"`
}

// AddMemberInput đầu vào thêm thành viên theo email
type AddMemberInput struct {
	Email string `json:"email" validate:"required,email"`
}

// OrganizationOutput là tổ chức kèm danh sách thành viên đã resolve
type OrganizationOutput struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Members   []MemberOutput `json:"members"`
	CreatedAt int64          `json:"createdAt"`
}
