package model

type State int

const (
	DefaultState State = iota
	ExpectingBuyOrder
	ExpectingShortOrder
	ExpectingSellOrder
	ExpectingAlertOrder
)

type Session struct {
	State  State
	Bucket Bucket
}
