package authsvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story_studio/config"
	authdto "story_studio/internal/api/auth/dto"
	models "story_studio/internal/api/auth/models"
	"story_studio/internal/api/base/service/storetest"
	"story_studio/internal/common"
	"story_studio/internal/delivery"
	"story_studio/internal/global"
	"story_studio/internal/utility"
)

const testSecret = "test-secret"

type fakeVerifier map[string]*Identity

func (f fakeVerifier) Verify(_ context.Context, idToken string) (*Identity, error) {
	if id, ok := f[idToken]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

type captureNotifier struct {
	mu    sync.Mutex
	items []delivery.Item
}

func (n *captureNotifier) Enqueue(item delivery.Item) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
	return true
}

type fixture struct {
	auth     *AuthService
	users    *UserService
	orgs     *OrganizationService
	notifier *captureNotifier
}

func setup(t *testing.T) *fixture {
	t.Helper()
	storetest.Use(t)
	global.MongoDB_ServerConfig = &config.Configuration{JwtSecret: testSecret, AccessTokenExpireMinutes: 60}

	notifier := &captureNotifier{}
	orgs, err := NewOrganizationService(notifier)
	require.NoError(t, err)
	users, err := NewUserService()
	require.NoError(t, err)
	verifier := fakeVerifier{
		"tok-an":   {Provider: ProviderGoogle, Subject: "g-an", Email: "An@Example.com", Name: "An", Picture: "http://img/an.png"},
		"tok-binh": {Provider: ProviderGoogle, Subject: "g-binh", Email: "binh@example.com", Name: "Bình"},
		"tok-chi":  {Provider: ProviderGoogle, Subject: "g-chi", Email: "chi@example.com", Name: "Chi"},
		"tok-mail": {Provider: ProviderGoogle, Subject: "g-nomail"},
	}
	auth, err := NewAuthService(verifier, orgs)
	require.NoError(t, err)
	return &fixture{auth: auth, users: users, orgs: orgs, notifier: notifier}
}

func (f *fixture) login(t *testing.T, idToken string) (*authdto.LoginOutput, *models.User) {
	t.Helper()
	out, err := f.auth.LoginWithGoogle(context.Background(), &authdto.GoogleLoginInput{IDToken: idToken})
	require.NoError(t, err)
	user, err := f.auth.Authenticate(context.Background(), out.AccessToken)
	require.NoError(t, err)
	return out, user
}

func statusOf(err error) int {
	var e *common.Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func TestLoginCreatesUserOnceAndIssuesBearerToken(t *testing.T) {
	f := setup(t)

	first, user := f.login(t, "tok-an")
	assert.Equal(t, TokenTypeBearer, first.TokenType)
	assert.False(t, first.HasOrganization)
	assert.Nil(t, first.Organization)
	assert.Equal(t, "an@example.com", first.User.Email)
	assert.Equal(t, "An", first.User.Name)
	assert.Equal(t, "http://img/an.png", user.AvatarURL)

	second, again := f.login(t, "tok-an")
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, first.User.ID, second.User.ID)

	// Token cũ bị thay bởi token mới nhất
	if first.AccessToken != second.AccessToken {
		_, err := f.auth.Authenticate(context.Background(), first.AccessToken)
		assert.ErrorIs(t, err, common.ErrTokenInvalid)
	}
}

func TestLoginRejectsInvalidIdentity(t *testing.T) {
	f := setup(t)

	_, err := f.auth.LoginWithGoogle(context.Background(), &authdto.GoogleLoginInput{IDToken: "garbage"})
	assert.Equal(t, common.StatusUnauthorized, statusOf(err))

	_, err = f.auth.LoginWithGoogle(context.Background(), &authdto.GoogleLoginInput{IDToken: "tok-mail"})
	assert.Equal(t, common.StatusUnauthorized, statusOf(err))
}

func TestAuthenticateRejections(t *testing.T) {
	f := setup(t)
	out, user := f.login(t, "tok-an")
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	forged, _, err := utility.CreateAccessToken("other-secret", user.ID.Hex(), time.Hour)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	expired, _, err := utility.CreateAccessToken(testSecret, user.ID.Hex(), -time.Minute)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	// Chữ ký đúng nhưng không phải token đang lưu của người dùng
	unstored, _, err := utility.CreateAccessToken(testSecret, user.ID.Hex(), time.Hour)
	require.NoError(t, err)
	if unstored != out.AccessToken {
		_, err = f.auth.Authenticate(ctx, unstored)
		assert.ErrorIs(t, err, common.ErrTokenInvalid)
	}

	require.NoError(t, f.auth.Logout(ctx, user.ID))
	_, err = f.auth.Authenticate(ctx, out.AccessToken)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
	assert.Equal(t, common.StatusUnauthorized, statusOf(err))
}

func TestProfileUpdateIsPartial(t *testing.T) {
	f := setup(t)
	_, user := f.login(t, "tok-an")
	ctx := context.Background()

	bio := "Biên kịch"
	out, err := f.users.UpdateProfile(ctx, user.ID, &authdto.ProfileUpdateInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "An", out.Name)
	assert.Equal(t, "Biên kịch", out.Bio)

	name := "  An Nguyễn "
	out, err = f.users.UpdateProfile(ctx, user.ID, &authdto.ProfileUpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "An Nguyễn", out.Name)
	assert.Equal(t, "Biên kịch", out.Bio)

	// Đăng nhập lại không ghi đè tên đã sửa
	relogin, _ := f.login(t, "tok-an")
	assert.Equal(t, "An Nguyễn", relogin.User.Name)
}

func TestCreateOrganizationRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, an := f.login(t, "tok-an")
	_, binh := f.login(t, "tok-binh")

	org, err := f.orgs.Create(ctx, an, &authdto.OrganizationCreateInput{Name: "Studio A"})
	require.NoError(t, err)
	require.Len(t, org.Members, 1)
	assert.Equal(t, an.ID.Hex(), org.Members[0].ID)

	an, err = f.auth.Authenticate(ctx, mustToken(t, f, an))
	require.NoError(t, err)
	assert.True(t, an.HasOrganization())

	_, err = f.orgs.Create(ctx, an, &authdto.OrganizationCreateInput{Name: "Studio B"})
	assert.Equal(t, common.StatusBadRequest, statusOf(err))

	_, err = f.orgs.Create(ctx, binh, &authdto.OrganizationCreateInput{Name: "Studio A"})
	assert.Equal(t, common.StatusBadRequest, statusOf(err))

	_, err = f.orgs.GetMine(ctx, binh)
	assert.ErrorIs(t, err, common.ErrNotFound)

	me, err := f.auth.Me(ctx, an)
	require.NoError(t, err)
	require.NotNil(t, me.Organization)
	assert.Equal(t, "Studio A", me.Organization.Name)
}

func TestAddMemberKeepsMembershipExclusive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, an := f.login(t, "tok-an")
	_, binh := f.login(t, "tok-binh")
	_, chi := f.login(t, "tok-chi")

	_, err := f.orgs.AddMember(ctx, an, &authdto.AddMemberInput{Email: "binh@example.com"})
	assert.Equal(t, common.StatusBadRequest, statusOf(err), "caller chưa có tổ chức")

	orgA, err := f.orgs.Create(ctx, an, &authdto.OrganizationCreateInput{Name: "Studio A"})
	require.NoError(t, err)
	orgC, err := f.orgs.Create(ctx, chi, &authdto.OrganizationCreateInput{Name: "Studio C"})
	require.NoError(t, err)

	_, err = f.orgs.AddMember(ctx, an, &authdto.AddMemberInput{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	updated, err := f.orgs.AddMember(ctx, an, &authdto.AddMemberInput{Email: "BINH@example.com"})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 2)

	binh, err = f.users.FindByID(ctx, binh.ID)
	require.NoError(t, err)
	require.True(t, binh.HasOrganization())
	assert.Equal(t, orgA.ID, binh.OrganizationID.Hex())

	require.Len(t, f.notifier.items, 1)
	assert.Equal(t, "binh@example.com", f.notifier.items[0].Recipient)

	// Bình đã thuộc Studio A: Studio C không thêm được, cả hai danh sách giữ nguyên
	_, err = f.orgs.AddMember(ctx, chi, &authdto.AddMemberInput{Email: "binh@example.com"})
	assert.Equal(t, common.StatusBadRequest, statusOf(err))

	membersA, err := f.orgs.ListMembers(ctx, an)
	require.NoError(t, err)
	assert.Len(t, membersA, 2)
	membersC, err := f.orgs.ListMembers(ctx, chi)
	require.NoError(t, err)
	require.Len(t, membersC, 1)
	assert.Equal(t, orgC.Members[0].ID, membersC[0].ID)

	// Thêm lại chính thành viên đã có cũng bị từ chối
	_, err = f.orgs.AddMember(ctx, an, &authdto.AddMemberInput{Email: "binh@example.com"})
	assert.Equal(t, common.StatusBadRequest, statusOf(err))
	assert.Len(t, f.notifier.items, 1)
}

func mustToken(t *testing.T, f *fixture, user *models.User) string {
	t.Helper()
	fresh, err := f.users.store.FindOneById(context.Background(), user.ID)
	require.NoError(t, err)
	return fresh.Token
}
