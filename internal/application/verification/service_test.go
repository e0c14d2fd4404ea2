package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/phone-otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, phoneKey string) (string, error) {
	args := m.Called(ctx, phoneKey)
	return args.String(0), args.Error(1)
}
func (m *mockStore) Verify(ctx context.Context, phoneKey, code string) (bool, error) {
	args := m.Called(ctx, phoneKey, code)
	return args.Bool(0), args.Error(1)
}
func (m *mockStore) Delete(ctx context.Context, phoneKey string) error {
	return m.Called(ctx, phoneKey).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) Send(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

type mockTokenIssuer struct{ mock.Mock }

func (m *mockTokenIssuer) Sign(phoneKey string) (string, error) {
	args := m.Called(phoneKey)
	return args.String(0), args.Error(1)
}

// --- RequestCode ---

func TestRequestCode_InvalidPhone(t *testing.T) {
	svc := NewService(nil, nil, nil, "1", false)
	_, err := svc.RequestCode(context.Background(), "12345")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPhone))
}

func TestRequestCode_NormalizesBeforeStore(t *testing.T) {
	st := &mockStore{}
	sms := &mockSMSSender{}
	st.On("Create", mock.Anything, "+15551234567").Return("004821", nil)
	sms.On("Send", mock.Anything, "+15551234567", mock.Anything).Return(nil)

	svc := NewService(st, sms, nil, "1", false)
	res, err := svc.RequestCode(context.Background(), "(555) 123-4567")

	require.NoError(t, err)
	assert.Equal(t, "+15551234567", res.PhoneNumber)
	assert.Empty(t, res.DebugCode)
	st.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestRequestCode_RateLimitedPropagates(t *testing.T) {
	st := &mockStore{}
	st.On("Create", mock.Anything, "+15551234567").Return("", domain.ErrRateLimited)

	svc := NewService(st, nil, nil, "1", false)
	_, err := svc.RequestCode(context.Background(), "+15551234567")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
}

func TestRequestCode_DeliveryFailure(t *testing.T) {
	st := &mockStore{}
	sms := &mockSMSSender{}
	st.On("Create", mock.Anything, "+15551234567").Return("004821", nil)
	sms.On("Send", mock.Anything, "+15551234567", mock.Anything).Return(errors.New("sns: throttled"))

	svc := NewService(st, sms, nil, "1", false)
	_, err := svc.RequestCode(context.Background(), "+15551234567")
	require.Error(t, err)
	// The transport error is logged, not surfaced.
	assert.True(t, errors.Is(err, domain.ErrDeliveryFailed))
	assert.NotContains(t, err.Error(), "sns")
}

func TestRequestCode_MessageContainsCode(t *testing.T) {
	st := &mockStore{}
	sms := &mockSMSSender{}
	st.On("Create", mock.Anything, "+15551234567").Return("004821", nil)
	sms.On("Send", mock.Anything, "+15551234567", mock.MatchedBy(func(msg string) bool {
		return len(msg) > 6 && msg[len(msg)-6:] == "004821"
	})).Return(nil)

	svc := NewService(st, sms, nil, "1", false)
	_, err := svc.RequestCode(context.Background(), "+15551234567")
	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestRequestCode_DebugEcho(t *testing.T) {
	st := &mockStore{}
	sms := &mockSMSSender{}
	st.On("Create", mock.Anything, "+15551234567").Return("004821", nil)
	sms.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(st, sms, nil, "1", true)
	res, err := svc.RequestCode(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "004821", res.DebugCode)
}

// --- ConfirmCode ---

func TestConfirmCode_Success_IssuesToken(t *testing.T) {
	st := &mockStore{}
	tok := &mockTokenIssuer{}
	st.On("Verify", mock.Anything, "+15551234567", "004821").Return(true, nil)
	tok.On("Sign", "+15551234567").Return("bearer-token", nil)

	svc := NewService(st, nil, tok, "1", false)
	res, err := svc.ConfirmCode(context.Background(), "5551234567", "004821")

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", res.Token)
	assert.Equal(t, "+15551234567", res.PhoneNumber)
	st.AssertExpectations(t)
	tok.AssertExpectations(t)
}

func TestConfirmCode_WrongCode(t *testing.T) {
	st := &mockStore{}
	st.On("Verify", mock.Anything, "+15551234567", "000000").Return(false, nil)

	svc := NewService(st, nil, nil, "1", false)
	_, err := svc.ConfirmCode(context.Background(), "+15551234567", "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestConfirmCode_NotFoundPropagates(t *testing.T) {
	st := &mockStore{}
	st.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(false, domain.ErrNotFound)

	svc := NewService(st, nil, nil, "1", false)
	_, err := svc.ConfirmCode(context.Background(), "+15551234567", "004821")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConfirmCode_AttemptsExceededPropagates(t *testing.T) {
	st := &mockStore{}
	st.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(false, domain.ErrAttemptsExceeded)

	svc := NewService(st, nil, nil, "1", false)
	_, err := svc.ConfirmCode(context.Background(), "+15551234567", "004821")
	assert.True(t, errors.Is(err, domain.ErrAttemptsExceeded))
}

func TestConfirmCode_SignFailure(t *testing.T) {
	st := &mockStore{}
	tok := &mockTokenIssuer{}
	st.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	tok.On("Sign", mock.Anything).Return("", errors.New("no key"))

	svc := NewService(st, nil, tok, "1", false)
	_, err := svc.ConfirmCode(context.Background(), "+15551234567", "004821")
	require.Error(t, err)
}
