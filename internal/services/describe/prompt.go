package describe

// ItemDescriptionPrompt is the fixed instruction sent with every image. The
// wording biases the model toward searchable keywords because the generated
// text is the sole signal for downstream text-similarity comparisons.
const ItemDescriptionPrompt = "Describe this item in detail for a lost and found system. " +
	"Include visual characteristics, potential brand names if visible, condition, " +
	"and any unique features. Focus on keywords useful for searching."
