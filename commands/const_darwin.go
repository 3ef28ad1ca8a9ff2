package commands

const (
	_etc = "/usr/local/etc/com.github.uhppoted"
	_var = "/usr/local/var/com.github.uhppoted"

	DEFAULT_WORKDIR     = _var + "/sheets-pdf"
	DEFAULT_CREDENTIALS = _etc + "/sheets-pdf/.google/credentials.json"
	DEFAULT_CONFIG      = _etc + "/sheets-pdf/config.yaml"
)
