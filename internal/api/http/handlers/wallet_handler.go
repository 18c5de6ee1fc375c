package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hackucf/onboard/internal/api/dto"
	"github.com/hackucf/onboard/internal/auth"
	"github.com/hackucf/onboard/internal/wallet"
	apperrors "github.com/hackucf/onboard/pkg/util/errorutil"
)

// PassIssuer produces signed passes for members.
type PassIssuer interface {
	IssueApplePass(ctx context.Context, userID string) ([]byte, error)
}

// WalletHandler serves wallet endpoints.
type WalletHandler struct {
	passes PassIssuer
}

// NewWalletHandler constructs handler.
func NewWalletHandler(passes PassIssuer) *WalletHandler {
	return &WalletHandler{passes: passes}
}

// Info GET /wallet/.
func (h *WalletHandler) Info(c *fiber.Ctx) error {
	return c.JSON(dto.InfoResponse{
		Name:        "Onboard for Mobile Wallets",
		Description: "Apple Wallet support.",
		Credits: []dto.PublicContact{{
			FirstName: "Jonathan",
			Surname:   "Styles",
			OpsEmail:  "jstyles@hackucf.org",
		}},
	})
}

// ApplePass GET /wallet/apple.
func (h *WalletHandler) ApplePass(c *fiber.Ctx) error {
	member, ok := auth.MemberFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("member login required")
	}
	pass, err := h.passes.IssueApplePass(c.UserContext(), member.UserID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, wallet.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", wallet.AttachmentName))
	return c.Send(pass)
}
