package mailer

import (
	"fmt"
	"log"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/Shorno/organic-food-store/internal/models"
)

// Mailer sends transactional mail over SMTP. With no host configured it is
// disabled and every send becomes a logged no-op, which keeps local
// development working without an SMTP account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

// SendOrderConfirmation mails the customer after their payment completes.
func (m *Mailer) SendOrderConfirmation(order models.Order) error {
	if !m.Enabled() {
		log.Println("[MAIL] [INFO] mailer disabled, skipping confirmation for", order.OrderNumber)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(order.Shipping.Email); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Order %s confirmed", order.OrderNumber))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("[MAIL] [INFO] sending order confirmation to", order.Shipping.Email)
	return client.DialAndSend(msg)
}

func orderConfirmationHTML(order models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
			item.Name, item.Quantity, item.UnitPrice.String(), item.Subtotal.String(),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
	<h2>Thank you, %s!</h2>
	<p>Your order <strong>%s</strong> is confirmed.</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Product</th><th>Qty</th><th>Unit price</th><th>Subtotal</th></tr>
		%s
	</table>
	<p>Subtotal: %s<br>Shipping: %s<br><strong>Total: %s</strong></p>
	<p>We will deliver to: %s, %s, %s %s</p>
</body>
</html>`,
		order.Shipping.FullName,
		order.OrderNumber,
		rows.String(),
		order.Subtotal.String(),
		order.ShippingAmount.String(),
		order.TotalAmount.String(),
		order.Shipping.AddressLine,
		order.Shipping.City,
		order.Shipping.PostalCode,
		order.Shipping.Country,
	)
}
