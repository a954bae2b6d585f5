package scenario

import (
	"github.com/socialproof/socialproof/internal/difficulty"
)

// fallbackContent holds one pre-written scenario per known type. These are
// served when no AI backend is available, so training can proceed offline.
var fallbackContent = map[string]string{
	TypeEmailPhish: "Dear Customer,\n\n" +
		"We have detected unusal activity on your acount. Your access will be " +
		"SUSPENDED in 24 hours unless you verify your informations immediately.\n\n" +
		"Click here to verify: http://secure-account-verify.example-billing.com\n\n" +
		"Failure to act now will result in permanent account closure.\n\n" +
		"Regards,\nAccount Security Team",
	TypeSMSScam: "ALERT: Your package could not be delivered. A redelivery fee of " +
		"$1.99 is required. Pay now to avoid return to sender: " +
		"http://bit.ly/track-parcel-8832. Reply STOP to opt out.",
	TypeVoicePhish: "Hello, this is Kevin from your bank's fraud prevention department. " +
		"We've flagged a suspicious charge of $499 on your card ending in an unknown " +
		"number. To cancel the charge I just need to confirm your full card number " +
		"and the security code on the back. This line is recorded for your protection.",
	TypeSocialEngineering: "Hi, this is Sam from IT support. We're rolling out an urgent " +
		"security patch and I need your login credentials to apply it to your " +
		"workstation remotely. It'll only take a minute, and your manager already " +
		"approved the rollout for your whole team.",
	TypePretexting: "Good afternoon, I'm calling from the facilities contractor handling " +
		"your office's badge system upgrade. We lost part of the employee roster in " +
		"the migration. Could you confirm your full name, employee ID, and badge " +
		"number so we can restore your building access before Monday?",
}

// defaultFallback is served for unknown scenario types.
const defaultFallback = "Dear User,\n\n" +
	"Your account requires immediate verification. Please respond with your " +
	"username and password to avoid service interruption.\n\n" +
	"Support Team"

// fallback returns the static scenario for the given type and tier.
func (g *Generator) fallback(scenarioType string, tier difficulty.Tier) Result {
	content, ok := fallbackContent[scenarioType]
	if !ok {
		content = defaultFallback
	}
	return Result{
		Content:         content,
		ScenarioType:    scenarioType,
		DifficultyLabel: tier.Label,
		DifficultyLevel: tier.Score,
		Provider:        FallbackProvider,
	}
}
