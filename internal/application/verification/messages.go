package verification

import "fmt"

const emailSubject = "Your verification code"

// MobileMessage is the SMS text for channels that send free text.
func MobileMessage(code string) string {
	return fmt.Sprintf("%s is your verification code. It is valid for 10 minutes. Do not share it with anyone.", code)
}

func emailBody(code string) string {
	return fmt.Sprintf(`<p>Your verification code is <strong>%s</strong>.</p>
<p>The code is valid for 10 minutes. If you did not request it, you can ignore this email.</p>`, code)
}
