package uploader

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/roverkit/robolog/helper"
	"github.com/roverkit/robolog/version"
)

// PlatformClient builds a resty client for the fleet platform from the
// active remote config.
func PlatformClient(verbose bool) (*resty.Client, error) {
	baseURL := helper.CurrentConfig("url")
	token := helper.CurrentConfig("token")

	if baseURL == "" {
		return nil, errors.New("fleet API URL is not defined, maybe try `robolog configure remote`")
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Token "+token)
	client.SetDebug(verbose)

	if retryCount := helper.CurrentConfig("retry_count"); retryCount != "" {
		count, err := strconv.Atoi(retryCount)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("invalid retry_count %q in the remote config", retryCount)
		}
		client.SetRetryCount(count)
	}

	if cliVersion, err := helper.SanitizeVersion(version.CliVersion); err == nil {
		client.SetHeader("User-Agent", "robolog/"+cliVersion)
	}

	return client, nil
}
