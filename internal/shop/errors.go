// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import "github.com/samber/oops"

// Error codes for shop operations.
const (
	CodeUnknownShop     = "UNKNOWN_SHOP"
	CodeUnknownItem     = "UNKNOWN_ITEM"
	CodeDuplicateShop   = "DUPLICATE_SHOP"
	CodeDuplicateItem   = "DUPLICATE_ITEM"
	CodeInvalidShop     = "INVALID_SHOP"
	CodeInvalidItem     = "INVALID_ITEM"
	CodeAccessDenied    = "ACCESS_DENIED"
	CodeOutOfStock      = "OUT_OF_STOCK"
	CodeNotAccepted     = "NOT_ACCEPTED"
	CodeInvalidSnapshot = "INVALID_SNAPSHOT"
	CodeInvalidQuantity = "INVALID_QUANTITY"
)

// ErrUnknownShop creates an error for a shop id that is not registered.
func ErrUnknownShop(id string) error {
	return oops.Code(CodeUnknownShop).
		With("shop_id", id).
		Errorf("unknown shop: %s", id)
}

// ErrUnknownItem creates an error for an item id missing from the catalog.
func ErrUnknownItem(id string) error {
	return oops.Code(CodeUnknownItem).
		With("item_id", id).
		Errorf("unknown item: %s", id)
}

// ErrDuplicateShop creates an error for a shop id that already exists.
func ErrDuplicateShop(id string) error {
	return oops.Code(CodeDuplicateShop).
		With("shop_id", id).
		Errorf("shop %s already exists", id)
}

// ErrDuplicateItem creates an error for an item id that is already in the catalog.
func ErrDuplicateItem(id string) error {
	return oops.Code(CodeDuplicateItem).
		With("item_id", id).
		Errorf("item %s already exists", id)
}

// ErrInvalidShop creates an error for a malformed shop definition.
func ErrInvalidShop(id, reason string) error {
	return oops.Code(CodeInvalidShop).
		With("shop_id", id).
		Errorf("invalid shop %q: %s", id, reason)
}

// ErrInvalidItem creates an error for a malformed catalog entry.
func ErrInvalidItem(id, reason string) error {
	return oops.Code(CodeInvalidItem).
		With("item_id", id).
		Errorf("invalid item %q: %s", id, reason)
}

// ErrAccessDenied creates an error carrying the access gate's reason.
func ErrAccessDenied(shopID, reason string) error {
	return oops.Code(CodeAccessDenied).
		With("shop_id", shopID).
		Errorf("%s", reason)
}

// ErrOutOfStock creates an error for a purchase the inventory cannot cover.
func ErrOutOfStock(shopID, itemID string, available int) error {
	return oops.Code(CodeOutOfStock).
		With("shop_id", shopID).
		With("item_id", itemID).
		With("available", available).
		Errorf("%s is out of stock at %s", itemID, shopID)
}

// ErrNotAccepted creates an error for an item a vendor will not trade.
func ErrNotAccepted(shopID, itemID, reason string) error {
	return oops.Code(CodeNotAccepted).
		With("shop_id", shopID).
		With("item_id", itemID).
		Errorf("%s does not accept %s: %s", shopID, itemID, reason)
}

// ErrInvalidSnapshot creates an error for a snapshot that cannot be imported.
func ErrInvalidSnapshot(reason string) error {
	return oops.Code(CodeInvalidSnapshot).Errorf("invalid shop snapshot: %s", reason)
}

// ErrInvalidQuantity creates an error for a quantity whose total does not
// fit in a price.
func ErrInvalidQuantity(shopID, itemID string, qty int) error {
	return oops.Code(CodeInvalidQuantity).
		With("shop_id", shopID).
		With("item_id", itemID).
		With("quantity", qty).
		Errorf("quantity %d of %s at %s is too large to price", qty, itemID, shopID)
}
