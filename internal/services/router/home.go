package router

// Card is one entry of the home page. Cards with a Target open that view.
type Card struct {
	Title       string
	Description string
	Target      View
}

const (
	Tagline = "Protect Your Crops with AI-Powered Agriculture"
	Pitch   = "Detect crop diseases early, monitor soil conditions in real-time, and get personalized farming recommendations to maximize your yield and minimize losses."
)

// Features are the home page feature cards.
var Features = []Card{
	{"AI Disease Detection", "Upload crop images to instantly detect diseases and get treatment recommendations", ViewDetection},
	{"IoT Monitoring", "Real-time soil moisture, temperature, and humidity monitoring with smart sensors", ViewMonitoring},
	{"Analytics Dashboard", "Track crop health trends, yield predictions, and optimize farming practices", ViewAnalytics},
	{"Mobile Friendly", "Access all features on mobile devices perfect for field use", ""},
}

// Benefits are the home page benefit bullets.
var Benefits = []Card{
	{Title: "Increase Yield", Description: "Up to 30% improvement in crop yield"},
	{Title: "Reduce Losses", Description: "Early detection prevents 60% of crop losses"},
	{Title: "Sustainable Farming", Description: "Optimize resource usage for eco-friendly farming"},
	{Title: "Global Access", Description: "Multi-language support for farmers worldwide"},
}
