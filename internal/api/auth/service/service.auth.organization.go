package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "story_studio/internal/api/auth/dto"
	models "story_studio/internal/api/auth/models"
	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/common"
	"story_studio/internal/delivery"
	"story_studio/internal/global"
	"story_studio/internal/notification"
)

// Notifier nhận thông báo để gửi bất đồng bộ (delivery.Queue)
type Notifier interface {
	Enqueue(item delivery.Item) bool
}

// OrganizationService quản lý tổ chức và thành viên.
// Mỗi người dùng thuộc nhiều nhất một tổ chức.
type OrganizationService struct {
	orgs     basesvc.BaseServiceMongo[models.Organization]
	users    basesvc.BaseServiceMongo[models.User]
	notifier Notifier
}

// NewOrganizationService tạo OrganizationService. notifier có thể nil (không gửi email).
func NewOrganizationService(notifier Notifier) (*OrganizationService, error) {
	orgs, err := basesvc.NewStore[models.Organization](global.MongoDB_ColNames.Organizations)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations collection: %w", err)
	}
	users, err := basesvc.NewStore[models.User](global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to get users collection: %w", err)
	}
	return &OrganizationService{orgs: orgs, users: users, notifier: notifier}, nil
}

// Create tạo tổ chức mới với người tạo là thành viên đầu tiên
func (s *OrganizationService) Create(ctx context.Context, user *models.User, input *authdto.OrganizationCreateInput) (*authdto.OrganizationOutput, error) {
	if user.HasOrganization() {
		return nil, common.Precondition("Bạn đã thuộc một tổ chức")
	}

	name := strings.TrimSpace(input.Name)
	exists, err := s.orgs.DocumentExists(ctx, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Precondition(fmt.Sprintf("Tên tổ chức '%s' đã tồn tại", name))
	}

	org, err := s.orgs.InsertOne(ctx, models.Organization{
		Name:      name,
		MemberIDs: []primitive.ObjectID{user.ID},
		CreatedBy: user.ID,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, common.Precondition(fmt.Sprintf("Tên tổ chức '%s' đã tồn tại", name))
		}
		return nil, err
	}

	if _, err := s.users.UpdateById(ctx, user.ID, bson.M{"organizationId": org.ID}); err != nil {
		return nil, err
	}
	user.OrganizationID = &org.ID

	return s.payload(ctx, &org)
}

// GetMine trả về tổ chức của người dùng hiện tại
func (s *OrganizationService) GetMine(ctx context.Context, user *models.User) (*authdto.OrganizationOutput, error) {
	org, err := s.organizationOf(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.payload(ctx, org)
}

// PayloadFor trả về tổ chức của người dùng, nil nếu chưa có hoặc tổ chức không còn tồn tại
func (s *OrganizationService) PayloadFor(ctx context.Context, user *models.User) (*authdto.OrganizationOutput, error) {
	org, err := s.organizationOf(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.payload(ctx, org)
}

// AddMember thêm người dùng có email cho trước vào tổ chức của caller.
// Người dùng đã thuộc tổ chức khác (hoặc chính tổ chức này) bị từ chối, danh sách thành viên không đổi.
func (s *OrganizationService) AddMember(ctx context.Context, caller *models.User, input *authdto.AddMemberInput) (*authdto.OrganizationOutput, error) {
	if !caller.HasOrganization() {
		return nil, common.Precondition("Bạn chưa thuộc tổ chức nào")
	}
	org, err := s.organizationOf(ctx, caller)
	if err != nil {
		return nil, err
	}

	member, err := s.users.FindOne(ctx, bson.M{"email": normalizeEmail(input.Email)}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(fmt.Sprintf("Không tìm thấy người dùng với email '%s'", input.Email))
		}
		return nil, err
	}
	if member.HasOrganization() {
		return nil, common.Precondition("Người dùng đã thuộc một tổ chức")
	}

	// Chỉ gán khi member vẫn chưa có tổ chức, tránh hai tổ chức cùng thêm một người
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": member.ID, "organizationId": nil},
		bson.M{"organizationId": org.ID},
		nil,
	)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Precondition("Người dùng đã thuộc một tổ chức")
		}
		return nil, err
	}

	updated, err := s.orgs.UpdateById(ctx, org.ID, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{"memberIds": member.ID},
	})
	if err != nil {
		return nil, err
	}

	s.notifyMemberAdded(&member, &updated, caller)
	return s.payload(ctx, &updated)
}

// ListMembers trả về danh sách thành viên của tổ chức caller
func (s *OrganizationService) ListMembers(ctx context.Context, caller *models.User) ([]authdto.MemberOutput, error) {
	if !caller.HasOrganization() {
		return nil, common.Precondition("Bạn chưa thuộc tổ chức nào")
	}
	org, err := s.organizationOf(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.members(ctx, org)
}

func (s *OrganizationService) organizationOf(ctx context.Context, user *models.User) (*models.Organization, error) {
	if !user.HasOrganization() {
		return nil, common.NotFound("Bạn chưa thuộc tổ chức nào")
	}
	org, err := s.orgs.FindOneById(ctx, *user.OrganizationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Không tìm thấy tổ chức")
		}
		return nil, err
	}
	return &org, nil
}

// members resolve memberIds theo đúng thứ tự, bỏ qua ID không còn người dùng
func (s *OrganizationService) members(ctx context.Context, org *models.Organization) ([]authdto.MemberOutput, error) {
	users, err := s.users.FindManyByIds(ctx, org.MemberIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]authdto.MemberOutput, 0, len(org.MemberIDs))
	for _, id := range org.MemberIDs {
		if u, ok := byID[id]; ok {
			out = append(out, authdto.NewMemberOutput(u))
		}
	}
	return out, nil
}

func (s *OrganizationService) payload(ctx context.Context, org *models.Organization) (*authdto.OrganizationOutput, error) {
	members, err := s.members(ctx, org)
	if err != nil {
		return nil, err
	}
	return &authdto.OrganizationOutput{
		ID:        org.ID.Hex(),
		Name:      org.Name,
		Members:   members,
		CreatedAt: org.CreatedAt,
	}, nil
}

// notifyMemberAdded gửi email cho thành viên mới, lỗi chỉ được log
func (s *OrganizationService) notifyMemberAdded(member *models.User, org *models.Organization, inviter *models.User) {
	if s.notifier == nil || member.Email == "" {
		return
	}
	frontendURL := ""
	if global.MongoDB_ServerConfig != nil {
		frontendURL = global.MongoDB_ServerConfig.FrontendURL
	}

	item := delivery.Item{
		EventType: notification.EventMemberAdded,
		Recipient: member.Email,
		Template:  notification.MemberAdded(member.Name, org.Name, inviter.Name, frontendURL),
	}
	if !s.notifier.Enqueue(item) {
		logrus.WithFields(logrus.Fields{
			"organizationId": org.ID.Hex(),
			"memberId":       member.ID.Hex(),
		}).Warn("AddMember: không đưa được email thông báo vào hàng đợi")
	}
}
