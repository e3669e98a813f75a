package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	UserStatusPending   = "PENDING"
	UserStatusActive    = "ACTIVE"
	UserStatusSuspended = "SUSPENDED"
)

// Deposit and withdraw rows leave PENDING exactly once.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

const (
	TxDeposit         = "DEPOSIT"
	TxWithdraw        = "WITHDRAW"
	TxBet             = "BET"
	TxWin             = "WIN"
	TxBonus           = "BONUS"
	TxRefund          = "REFUND"
	TxRolloverRelease = "ROLLOVER_RELEASE"
	TxAdjustment      = "ADJUSTMENT"
)

// Realtime event types pushed over the websocket channel.
const (
	EventBalanceUpdate    = "balance_update"
	EventDepositConfirmed = "deposit_confirmed"
	EventWithdrawApproved = "withdraw_approved"
)
