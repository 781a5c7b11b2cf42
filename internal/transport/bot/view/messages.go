package view

const (
	StartMessage = `👋 <b>Deal Radar</b>

Commands:
/status — scanner status
/startscan — start periodic scanning
/stopscan — stop scanning
/scan — run one scan cycle now
/setthreshold &lt;usd&gt; — minimum discount to surface a deal
/latest — recently surfaced opportunities`

	SetThresholdMissingArgument = "Usage: /setthreshold <usd>"
	SetThresholdInvalidFormat   = "Threshold must be a non-negative number"
	SetThresholdSuccess         = "Discount threshold set to $%.2f"

	ScanStarted        = "🟢 Scanner started"
	ScanAlreadyRunning = "Scanner is already running"
	ScanStopped        = "🔴 Scanner stopped"
	ScanTriggered      = "🔍 Scan cycle triggered"

	NoOpportunities = "No opportunities surfaced yet"

	OpportunityItemTemplate = "💎 <b>$%.2f</b> (est. $%.2f, discount $%.2f)\n%s\n%s\n\n"
)
