package mysql

// data is LONGTEXT rather than JSON so MySQL hands back the exact bytes it was given.
const upsertConfigurationSQL = `
INSERT INTO configuration
  (id, data)
VALUES
  (?, ?)
ON DUPLICATE KEY UPDATE
  data       = VALUES(data),
  updated_at = CURRENT_TIMESTAMP
`

const getConfigurationSQL = `
SELECT id, data
FROM configuration
WHERE id = ?
`
