package domain

import (
	"testing"
	"time"
)

func TestTransactionTypeValues(t *testing.T) {
	// Must match CHECK (type IN ('income', 'expense'))
	tests := []struct {
		txType TransactionType
		valid  bool
	}{
		{TransactionTypeIncome, true},
		{TransactionTypeExpense, true},
		{TransactionType("transfer"), false},
		{TransactionType(""), false},
	}

	for _, tt := range tests {
		if got := tt.txType.IsValid(); got != tt.valid {
			t.Errorf("TransactionType(%q).IsValid() = %v, want %v", tt.txType, got, tt.valid)
		}
	}
}

func TestPaymentMethodValues(t *testing.T) {
	valid := []PaymentMethod{PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodWallet, PaymentMethodOther}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("PaymentMethod(%q) should be valid", m)
		}
	}

	if PaymentMethod("cheque").IsValid() {
		t.Error("PaymentMethod(cheque) should be invalid")
	}
}

func TestUserLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{"empty falls back to UTC", "", "UTC"},
		{"unknown falls back to UTC", "Mars/Olympus", "UTC"},
		{"valid IANA name", "Asia/Kolkata", "Asia/Kolkata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Timezone: tt.timezone}
			if got := u.Location().String(); got != tt.want {
				t.Errorf("Location() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPasswordResetIsExpired(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	reset := &PasswordReset{ExpiresAt: now.Add(PasswordResetTTL)}

	if reset.IsExpired(now) {
		t.Error("fresh token should not be expired")
	}
	if !reset.IsExpired(now.Add(2 * time.Hour)) {
		t.Error("token should be expired after its TTL")
	}
}

func TestUserProfileUpdateIsEmpty(t *testing.T) {
	if !(UserProfileUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	day := 15
	if (UserProfileUpdate{MonthStartDay: &day}).IsEmpty() {
		t.Error("update with monthStartDay should not be empty")
	}
}

func TestTransactionIsDeleted(t *testing.T) {
	tx := &Transaction{}
	if tx.IsDeleted() {
		t.Error("Expected live transaction")
	}
	at := time.Now()
	tx.DeletedAt = &at
	if !tx.IsDeleted() {
		t.Error("Expected deleted transaction")
	}
}
