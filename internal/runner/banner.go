package runner

import "github.com/projectdiscovery/gologger"

const banner = `
    __               __                  __       __
   / /_  ____  _____/ /__      ______ _/ /______/ /_
  / __ \/ __ \/ ___/ __/ | /| / / __ ` + "`" + `/ __/ ___/ __ \
 / / / / /_/ (__  ) /_ | |/ |/ / /_/ / /_/ /__/ / / /
/_/ /_/\____/____/\__/ |__/|__/\__,_/\__/\___/_/ /_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}
