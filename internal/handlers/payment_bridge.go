package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shorno/organic-food-store/internal/gateway"
	"github.com/Shorno/organic-food-store/internal/mailer"
)

// The gateway talks to these endpoints with form-encoded POST bodies. The
// three redirect endpoints exist purely for UX continuity: the browser may
// never arrive (closed tab, ad blocker, sandbox redirect quirks), so none of
// them mutate state. The IPN is the authoritative channel; correctness never
// depends on the redirects firing at all.

// PaymentSuccess bridges the gateway's success POST into a GET the front end
// can render. The success page then calls the validate endpoint itself.
func PaymentSuccess(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.PostForm("value_a")

		if orderID == "" {
			log.Println("[BRIDGE] [ERROR] success callback without order id")
			c.Redirect(http.StatusSeeOther, failedPageURL(frontendURL, url.Values{"reason": {"missing_order_id"}}))
			return
		}

		params := url.Values{}
		params.Set("value_a", orderID)
		setIfPresent(params, "val_id", c.PostForm("val_id"))
		setIfPresent(params, "tran_id", c.PostForm("tran_id"))
		setIfPresent(params, "amount", c.PostForm("amount"))
		setIfPresent(params, "status", c.PostForm("status"))
		setIfPresent(params, "card_type", c.PostForm("card_type"))
		setIfPresent(params, "card_brand", c.PostForm("card_brand"))

		log.Printf("[BRIDGE] [INFO] success callback for order %s (tran %s)", orderID, c.PostForm("tran_id"))
		c.Redirect(http.StatusSeeOther, frontendURL+"/checkout/payment/success?"+params.Encode())
	}
}

// PaymentFail bridges the gateway's failure POST to the failure page. A fail
// redirect alone is not proof of the final outcome, so nothing is written;
// the IPN settles the record.
func PaymentFail(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := url.Values{}
		setIfPresent(params, "id", c.PostForm("value_a"))
		setIfPresent(params, "tran_id", c.PostForm("tran_id"))
		setIfPresent(params, "status", c.PostForm("status"))
		setIfPresent(params, "reason", c.PostForm("error"))

		log.Printf("[BRIDGE] [INFO] fail callback for order %s", c.PostForm("value_a"))
		c.Redirect(http.StatusSeeOther, failedPageURL(frontendURL, params))
	}
}

// PaymentCancel handles the user backing out at the gateway.
func PaymentCancel(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := url.Values{}
		setIfPresent(params, "id", c.PostForm("value_a"))
		setIfPresent(params, "tran_id", c.PostForm("tran_id"))
		params.Set("status", "CANCELLED")
		params.Set("reason", "Payment cancelled by user")

		log.Printf("[BRIDGE] [INFO] cancel callback for order %s", c.PostForm("value_a"))
		c.Redirect(http.StatusSeeOther, failedPageURL(frontendURL, params))
	}
}

// PaymentIPN receives the gateway's server-to-server notification, the only
// channel guaranteed to eventually deliver the outcome. Settled statuses
// reconcile the order; FAILED marks the payment failed. Unexpected errors
// answer 500 so the gateway's retry policy re-delivers.
func PaymentIPN(db *mongo.Database, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.PostForm("status")
		tranID := c.PostForm("tran_id")
		valID := c.PostForm("val_id")
		rawOrderID := c.PostForm("value_a")

		log.Printf("[BRIDGE] [INFO] IPN received: status=%s tran=%s val=%s order=%s", status, tranID, valID, rawOrderID)

		orderID, err := primitive.ObjectIDFromHex(rawOrderID)
		if err != nil {
			log.Println("[BRIDGE] [ERROR] IPN with unusable order id:", rawOrderID)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "missing or invalid order id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		switch {
		case gateway.IsSettledStatus(status):
			if _, err := reconcilePayment(ctx, db, mail, orderID, tranID, outcomeValid); err != nil {
				respondIPNError(c, orderID, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment confirmed"})

		case status == gateway.StatusFailed:
			if _, err := reconcilePayment(ctx, db, mail, orderID, tranID, outcomeFailed); err != nil {
				respondIPNError(c, orderID, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "payment failed"})

		default:
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "unknown status"})
		}
	}
}

func respondIPNError(c *gin.Context, orderID primitive.ObjectID, err error) {
	if errors.Is(err, errOrderNotFound) {
		// Nothing to retry against; acknowledge so the gateway stops.
		log.Println("[BRIDGE] [ERROR] IPN for unknown order:", orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "unknown order"})
		return
	}
	log.Println("[BRIDGE] [ERROR] IPN reconciliation failed:", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}

func failedPageURL(frontendURL string, params url.Values) string {
	if len(params) == 0 {
		return frontendURL + "/checkout/payment/failed"
	}
	return frontendURL + "/checkout/payment/failed?" + params.Encode()
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
