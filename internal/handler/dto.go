package handler

import (
	"time"

	"github.com/Bloinx/investco/internal/domain"
	"github.com/Bloinx/investco/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}

// SaverDTO is the JSON representation of a participant's ledger record.
type SaverDTO struct {
	UserID           int64 `json:"userId"`
	AvailableSavings int64 `json:"availableSavings"`
	ValidPayments    int   `json:"validPayments"`
	LatePayments     int   `json:"latePayments"`
	Active           bool  `json:"active"`
	Position         int   `json:"position"`
	FuturePayments   int64 `json:"futurePayments"`
}

func toSaverDTO(s *domain.Saver, futurePayments int64) SaverDTO {
	return SaverDTO{
		UserID:           s.UserID,
		AvailableSavings: s.AvailableSavings,
		ValidPayments:    s.ValidPayments,
		LatePayments:     s.LatePayments,
		Active:           s.Active,
		Position:         s.Position,
		FuturePayments:   futurePayments,
	}
}

// BoxDTO is the JSON representation of the box configuration and state.
type BoxDTO struct {
	ContributionAmount int64  `json:"contributionAmount"`
	NumPayments        int    `json:"numPayments"`
	PayTimeSeconds     int64  `json:"payTimeSeconds"`
	WithdrawFeePercent int64  `json:"withdrawFeePercent"`
	TotalSavingsTarget int64  `json:"totalSavingsTarget"`
	CreatedAt          string `json:"createdAt"`
	CurrentPeriod      int    `json:"currentPeriod"`
	RealPeriod         int    `json:"realPeriod"`
	TotalSavings       int64  `json:"totalSavings"`
	Stage              string `json:"stage"`
	RegisteredUsers    int    `json:"registeredUsers"`
}

func toBoxDTO(b domain.Box, realPeriod, registered int) BoxDTO {
	return BoxDTO{
		ContributionAmount: b.Config.ContributionAmount,
		NumPayments:        b.Config.NumPayments,
		PayTimeSeconds:     int64(b.Config.PayTime / time.Second),
		WithdrawFeePercent: b.Config.WithdrawFeePercent,
		TotalSavingsTarget: b.Config.TotalSavingsTarget(),
		CreatedAt:          b.Config.CreatedAt.Format(time.RFC3339),
		CurrentPeriod:      b.State.CurrentPeriod,
		RealPeriod:         realPeriod,
		TotalSavings:       b.State.TotalSavings,
		Stage:              string(b.State.Stage),
		RegisteredUsers:    registered,
	}
}

// PaymentReceiptDTO is the JSON representation of a payment receipt.
type PaymentReceiptDTO struct {
	Ref              string `json:"ref"`
	Period           int    `json:"period"`
	Amount           int64  `json:"amount"`
	AvailableSavings int64  `json:"availableSavings"`
	ValidPayments    int    `json:"validPayments"`
}

func toPaymentReceiptDTO(r *service.PaymentReceipt) PaymentReceiptDTO {
	return PaymentReceiptDTO{
		Ref:              r.Ref,
		Period:           r.Period,
		Amount:           r.Amount,
		AvailableSavings: r.AvailableSavings,
		ValidPayments:    r.ValidPayments,
	}
}

// WithdrawalReceiptDTO is the JSON representation of a withdrawal receipt.
type WithdrawalReceiptDTO struct {
	Ref              string `json:"ref"`
	Amount           int64  `json:"amount"`
	Fee              int64  `json:"fee"`
	Net              int64  `json:"net"`
	AvailableSavings int64  `json:"availableSavings"`
}

func toWithdrawalReceiptDTO(r *service.WithdrawalReceipt) WithdrawalReceiptDTO {
	return WithdrawalReceiptDTO{
		Ref:              r.Ref,
		Amount:           r.Amount,
		Fee:              r.Fee,
		Net:              r.Net,
		AvailableSavings: r.AvailableSavings,
	}
}

// AccountDataDTO is the JSON representation of the yield pool's account view.
type AccountDataDTO struct {
	CollateralValue int64 `json:"collateralValue"`
	DebtValue       int64 `json:"debtValue"`
	AvailableBorrow int64 `json:"availableBorrow"`
}

func toAccountDataDTO(d domain.AccountData) AccountDataDTO {
	return AccountDataDTO{
		CollateralValue: d.CollateralValue,
		DebtValue:       d.DebtValue,
		AvailableBorrow: d.AvailableBorrow,
	}
}
