package model

import "errors"

var (
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrEquipmentSlot        = errors.New("item cannot be equipped")
	ErrInventoryFull        = errors.New("inventory full")
	ErrItemNotFound         = errors.New("item not found")
	ErrItemNotUsable        = errors.New("item cannot be used")
	ErrUnknownStat          = errors.New("unknown stat")
	ErrInvalidCharacter     = errors.New("invalid character")
)

var (
	ErrUnknownAbility    = errors.New("unknown ability")
	ErrAbilityOnCooldown = errors.New("ability on cooldown")
	ErrInvalidEnemy      = errors.New("invalid enemy")
)
