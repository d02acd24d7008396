package news

import "github.com/bobmcallan/folio/internal/models"

// fallbackArticles is served whenever the news API cannot, so the feed is
// never empty.
var fallbackArticles = []models.NewsArticle{
	{
		ID:            "1",
		Title:         "Apples iPhone 16 Set to Feature Advanced AI Capabilities",
		URL:           "https://example.com/apple-iphone-16",
		TimePublished: "2023-07-12T09:30:00Z",
		Summary:       "Apple is planning to introduce advanced AI features in its upcoming iPhone 16 lineup, according to sources familiar with the matter. The new AI capabilities will focus on photography, Siri improvements, and enhanced productivity tools.",
		Source:        "Tech Insights",
		ImageURL:      "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?q=80&w=300",
		Topics:        []string{"Technology", "Apple", "Artificial Intelligence"},
		Sentiment:     "Positive",
		Tickers:       []string{"AAPL"},
	},
	{
		ID:            "2",
		Title:         "Tesla Exceeds Q2 Delivery Expectations Despite EV Market Slowdown",
		URL:           "https://example.com/tesla-q2-deliveries",
		TimePublished: "2023-07-10T14:15:00Z",
		Summary:       "Tesla has reported stronger than expected deliveries for Q2 2023, defying the broader slowdown in the electric vehicle market. The company delivered over 200,000 vehicles during the quarter, representing a 10% increase year-over-year.",
		Source:        "Auto Market News",
		ImageURL:      "https://images.unsplash.com/photo-1541899481282-d53bffe3c35d?q=80&w=300",
		Topics:        []string{"Automotive", "Electric Vehicles", "Tesla", "Earnings"},
		Sentiment:     "Positive",
		Tickers:       []string{"TSLA"},
	},
	{
		ID:            "3",
		Title:         "Fed Signals Potential Rate Cut as Inflation Eases",
		URL:           "https://example.com/fed-rate-cut-signals",
		TimePublished: "2023-07-09T10:45:00Z",
		Summary:       "The Federal Reserve has signaled that it may consider cutting interest rates in the coming months as inflation shows signs of easing. The announcement comes after several economic indicators suggested that price pressures are beginning to moderate.",
		Source:        "Financial Times",
		ImageURL:      "https://images.unsplash.com/photo-1526304640581-d334cdbbf45e?q=80&w=300",
		Topics:        []string{"Economy", "Federal Reserve", "Interest Rates", "Inflation"},
		Sentiment:     "Neutral",
		Tickers:       []string{"SPY", "QQQ", "DIA"},
	},
	{
		ID:            "4",
		Title:         "Microsoft Announces Major Azure Updates to Compete with AWS",
		URL:           "https://example.com/microsoft-azure-updates",
		TimePublished: "2023-07-08T16:20:00Z",
		Summary:       "Microsoft has unveiled significant updates to its Azure cloud platform, directly targeting Amazon Web Services market dominance. The new features include enhanced AI integration, improved security measures, and more competitive pricing tiers.",
		Source:        "Cloud Computing Today",
		ImageURL:      "https://images.unsplash.com/photo-1633419461186-7d40a38105ec?q=80&w=300",
		Topics:        []string{"Technology", "Cloud Computing", "Microsoft", "AWS"},
		Sentiment:     "Positive",
		Tickers:       []string{"MSFT", "AMZN"},
	},
	{
		ID:            "5",
		Title:         "NVIDIA Stock Reaches All-Time High on AI Chip Demand",
		URL:           "https://example.com/nvidia-stock-high",
		TimePublished: "2023-07-07T11:30:00Z",
		Summary:       "NVIDIA shares have reached an all-time high as demand for AI chips continues to surge. The company's graphics processing units have become essential for training and running advanced artificial intelligence systems, driving substantial revenue growth.",
		Source:        "Semiconductor Report",
		ImageURL:      "https://images.unsplash.com/photo-1587202372775-e229f172b9d7?q=80&w=300",
		Topics:        []string{"Technology", "Semiconductors", "AI", "Stocks"},
		Sentiment:     "Positive",
		Tickers:       []string{"NVDA"},
	},
	{
		ID:            "6",
		Title:         "Google Faces New Antitrust Lawsuit Over Digital Ad Market",
		URL:           "https://example.com/google-antitrust-lawsuit",
		TimePublished: "2023-07-06T09:15:00Z",
		Summary:       "Google is facing a new antitrust lawsuit alleging that the company has monopolized the digital advertising market. The lawsuit, filed by a coalition of state attorneys general, claims that Google's practices have harmed competitors and consumers.",
		Source:        "Legal Observer",
		ImageURL:      "https://images.unsplash.com/photo-1573804633927-bfcbcd909acd?q=80&w=300",
		Topics:        []string{"Technology", "Legal", "Antitrust", "Digital Advertising"},
		Sentiment:     "Negative",
		Tickers:       []string{"GOOGL"},
	},
	{
		ID:            "7",
		Title:         "Meta Platforms Unveils New VR Headset to Challenge Apple",
		URL:           "https://example.com/meta-vr-headset",
		TimePublished: "2023-07-05T13:45:00Z",
		Summary:       "Meta Platforms has announced a new virtual reality headset that aims to compete directly with Apple's recently unveiled Vision Pro. The new Meta device will be priced significantly lower while offering comparable features in an attempt to capture market share.",
		Source:        "VR World",
		ImageURL:      "https://images.unsplash.com/photo-1622979135225-d2ba269cf1ac?q=80&w=300",
		Topics:        []string{"Technology", "Virtual Reality", "Meta", "Apple"},
		Sentiment:     "Positive",
		Tickers:       []string{"META", "AAPL"},
	},
}
