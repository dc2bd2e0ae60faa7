package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *InMemoryUserRepository, *InMemorySessionStore) {
	t.Helper()
	repo := NewInMemoryUserRepository()
	sessions := NewInMemorySessionStore()
	svc := NewService(repo, sessions, nil, Config{JWTSecret: "test-secret"}, logging.Default())

	seed := []*Credential{
		{Profile: Profile{ID: "u-1", Email: "admin@dentalcenter.com", FirstName: "Dr. Admin", LastName: "User", Role: RoleAdmin}, Password: "admin123"},
		{Profile: Profile{ID: "u-2", Email: "patient@example.com", FirstName: "John", LastName: "Patient", Role: RolePatient}, Password: "patient123"},
	}
	for _, c := range seed {
		require.NoError(t, repo.Insert(context.Background(), c))
	}
	return svc, repo, sessions
}

func TestLoginSuccessOmitsPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	creds, err := repo.List(ctx)
	require.NoError(t, err)

	for _, cred := range creds {
		session, err := svc.Login(ctx, cred.Email, cred.Password)
		require.NoError(t, err, "seeded credential %s should log in", cred.Email)
		assert.Equal(t, cred.Profile, session.Profile)
		assert.NotEmpty(t, session.Token)

		resolved, err := svc.Resolve(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, cred.Profile, resolved)
	}
}

func TestLoginRejectsUnknownOrWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotEmpty(t, err.Error())

	_, err = svc.Login(ctx, "admin@dentalcenter.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginEmailMatchIsCaseSensitive(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "ADMIN@dentalcenter.com", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmailLeavesListUnchanged(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	before, err := repo.List(ctx)
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{
		FirstName: "Someone",
		LastName:  "Else",
		Email:     "admin@dentalcenter.com",
		Password:  "pw",
		Role:      RolePatient,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestRegisterNovelEmailSignsIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterRequest{
		FirstName: "New",
		LastName:  "Patient",
		Email:     "new@example.com",
		Password:  "secret",
		Role:      RolePatient,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Profile.ID)
	assert.Equal(t, RolePatient, session.Profile.Role)

	// The new session is immediately usable.
	resolved, err := svc.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resolved.Email)

	// And the credentials now work for a fresh login.
	_, err = svc.Login(ctx, "new@example.com", "secret")
	require.NoError(t, err)
}

func TestRegisterUnknownRoleDefaultsToPatient(t *testing.T) {
	svc, _, _ := newTestService(t)

	session, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "A",
		LastName:  "B",
		Email:     "ab@example.com",
		Password:  "pw",
		Role:      Role("superuser"),
	})
	require.NoError(t, err)
	assert.Equal(t, RolePatient, session.Profile.Role)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "patient@example.com", "patient123")
	require.NoError(t, err)

	svc.Logout(ctx, session.Token)

	_, err = svc.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Logging out twice, or with garbage, is harmless.
	svc.Logout(ctx, session.Token)
	svc.Logout(ctx, "not-a-token")
}

func TestResolveCorruptSessionClearsEntry(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "patient@example.com", "patient123")
	require.NoError(t, err)

	// Corrupt the stored profile behind the live session.
	resolved, err := svc.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, "patient@example.com", resolved.Email)

	for id := range sessions.sessions {
		sessions.putRaw(id, []byte("{corrupt"))
	}

	_, err = svc.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, sessions.sessions, "corrupt entries should be cleared")
}

func TestForgotPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.ForgotPassword(ctx, "patient@example.com"))
	assert.ErrorIs(t, svc.ForgotPassword(ctx, "missing@example.com"), ErrUnknownEmail)
}

type recordingMailer struct {
	toEmail string
	link    string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, toEmail, _, resetLink string) error {
	m.toEmail = toEmail
	m.link = resetLink
	return nil
}

func TestForgotPasswordSendsResetLink(t *testing.T) {
	repo := NewInMemoryUserRepository()
	require.NoError(t, repo.Insert(context.Background(), &Credential{
		Profile:  Profile{ID: "u-9", Email: "sarah.johnson@email.com", FirstName: "Sarah", LastName: "Johnson", Role: RolePatient},
		Password: "sarah123",
	}))
	mailer := &recordingMailer{}
	svc := NewService(repo, NewInMemorySessionStore(), mailer, Config{
		JWTSecret:    "test-secret",
		ResetBaseURL: "https://portal.example/reset-password",
	}, logging.Default())

	require.NoError(t, svc.ForgotPassword(context.Background(), "sarah.johnson@email.com"))
	assert.Equal(t, "sarah.johnson@email.com", mailer.toEmail)
	assert.Contains(t, mailer.link, "https://portal.example/reset-password?token=")
}

func TestResetPasswordAcceptsAnyToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.NoError(t, svc.ResetPassword(context.Background(), "anything-at-all", "newpw"))
}
