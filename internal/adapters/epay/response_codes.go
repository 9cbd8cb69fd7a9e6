package epay

import "fmt"

// ResponseCodeInfo describes one gateway or acquirer response code.
type ResponseCodeInfo struct {
	Code        int
	Description string
	UserMessage string
}

// Gateway-level response codes (epayresponse). Negative codes are produced
// by ePay itself, before the acquirer is involved.
var epayResponseCodes = map[int]ResponseCodeInfo{
	-1001: {
		Code:        -1001,
		Description: "Invalid merchant number",
		UserMessage: "The merchant number is not valid",
	},
	-1002: {
		Code:        -1002,
		Description: "Invalid remote API password",
		UserMessage: "Authentication with the gateway failed",
	},
	-1003: {
		Code:        -1003,
		Description: "Remote interface is not enabled for the merchant",
		UserMessage: "The remote interface is not enabled for this merchant account",
	},
	-1008: {
		Code:        -1008,
		Description: "Transaction not found",
		UserMessage: "The transaction could not be found at the gateway",
	},
	-1009: {
		Code:        -1009,
		Description: "Transaction already deleted",
		UserMessage: "The transaction has already been deleted",
	},
	-1010: {
		Code:        -1010,
		Description: "Amount exceeds the available transaction amount",
		UserMessage: "The amount is higher than the amount available on the transaction",
	},
	-1017: {
		Code:        -1017,
		Description: "Transaction already fully captured",
		UserMessage: "The transaction has already been captured in full",
	},
	-1019: {
		Code:        -1019,
		Description: "Transaction is closed",
		UserMessage: "The transaction is closed and accepts no further actions",
	},
}

// Acquirer-level response codes (pbsresponse), reported when the acquirer
// declined an otherwise well-formed instruction.
var pbsResponseCodes = map[int]ResponseCodeInfo{
	1: {
		Code:        1,
		Description: "Capture/credit malfunction at the acquirer",
		UserMessage: "The acquirer could not process the request, try again later",
	},
	2: {
		Code:        2,
		Description: "Accounting error at the acquirer",
		UserMessage: "The acquirer reported an accounting error",
	},
	3: {
		Code:        3,
		Description: "Card expired",
		UserMessage: "The card used for the transaction has expired",
	},
	5: {
		Code:        5,
		Description: "Card blocked",
		UserMessage: "The card used for the transaction is blocked",
	},
	6: {
		Code:        6,
		Description: "Transaction rejected by the acquirer",
		UserMessage: "The acquirer rejected the transaction",
	},
	7: {
		Code:        7,
		Description: "Insufficient funds",
		UserMessage: "The card has insufficient funds",
	},
	8: {
		Code:        8,
		Description: "Error in card data",
		UserMessage: "The acquirer reported an error in the card data",
	},
	9: {
		Code:        9,
		Description: "Technical malfunction at the acquirer",
		UserMessage: "A technical error occurred at the acquirer, try again later",
	},
}

// responseMessage translates a failed action response into a human-readable
// detail, preferring the acquirer code when one is present.
func responseMessage(epayResponse, pbsResponse int) string {
	if pbsResponse > 0 {
		if info, ok := pbsResponseCodes[pbsResponse]; ok {
			return info.UserMessage
		}
		return fmt.Sprintf("the acquirer declined the request (code %d)", pbsResponse)
	}
	if info, ok := epayResponseCodes[epayResponse]; ok {
		return info.UserMessage
	}
	return fmt.Sprintf("the gateway rejected the request (code %d)", epayResponse)
}
