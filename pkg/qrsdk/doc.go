/*
Package qrsdk is a Go client for the QR payment token service.

	client := qrsdk.NewClient("https://qrpay.example.com")

	// Mint a token for a cashier terminal to render as a QR image
	gen, err := client.Generate(ctx, qrsdk.GenerateRequest{LoanID: "L1", Amount: 5000, UserID: "U1"})

	// Redeem it once
	res, err := client.Verify(ctx, gen.Code)

Failures come back as *APIError. Compare them with errors.Is against the
predefined errors:

	if errors.Is(err, qrsdk.ErrInvalidOrExpiredCode) {
		// unknown or already used
	}

Live payment progress is available over a websocket:

	sub, err := client.Subscribe(ctx, "payment-updates")
	defer sub.Close()
	ev, err := sub.Next()
*/
package qrsdk
