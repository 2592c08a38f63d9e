package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ConfigFileName is the name of the application configuration file.
const ConfigFileName = ".srcmap.yaml"

// GlobalConfigDirectoryName is the directory under the user home that holds global configuration.
const GlobalConfigDirectoryName = ".config/srcmap"

// LoggerInitializationFailedMessageFormat reports a failure to construct the application logger.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal CLI errors.
const ApplicationExecutionFailedMessage = "application execution failed"
