// vacancies filters and aggregates job postings collected from Telegram
// channels.
package main

import (
	"os"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
