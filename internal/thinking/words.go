package thinking

// DefaultWords is the built-in phrase pool.
var DefaultWords = []string{
	"hmmm...",
	"ah!",
	"HA!",
	"an interesting point...",
	"let's see...",
	"good question...",
	"one moment...",
	"uno momento...",
	"... calculating the 314159th digit of Pi ...",
	"pondering...",
	"considering...",
	".. oh wait...",
	"processing...",
	"let me think...",
	"aha!",
	"mmmh...",
	"interesting...",
	"fascinating...",
	"curious...",
	"intriguing...",
	"just a sec!",
	"🤔",
	"calculating...",
	"hocus pocus...",
}
