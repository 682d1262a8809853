package mysql

// Column order here must match scanProperty.
const propertyColumns = `
  p.id,
  p.owner_id,
  p.title,
  p.description,
  p.thumbnail_photo_url,
  p.cover_photo_url,
  p.cost_per_night,
  p.parking_spaces,
  p.number_of_bathrooms,
  p.number_of_bedrooms,
  p.country,
  p.street,
  p.city,
  p.province,
  p.post_code,
  p.active`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const getUserWithEmailSQL = `
SELECT id, name, email, password
FROM users
WHERE email = ?
`

const getUserWithIDSQL = `
SELECT id, name, email, password
FROM users
WHERE id = ?
`

const insertUserSQL = `
INSERT INTO users (name, email, password)
VALUES (?, ?, ?)
`

// -----------------------------------------------------------------------------
// PROPERTIES
// -----------------------------------------------------------------------------

const insertPropertySQL = `
INSERT INTO properties
  (owner_id, title, description, thumbnail_photo_url, cover_photo_url, cost_per_night,
   street, city, province, post_code, country, parking_spaces, number_of_bathrooms, number_of_bedrooms)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getPropertySQL = `
SELECT` + propertyColumns + `
FROM properties p
WHERE p.id = ?
`

// Reviews are outer-joined: a property without reviews is listed with a NULL
// average, and drops out under a minimum rating filter.
const searchPropertiesBaseSQL = `
SELECT` + propertyColumns + `,
  AVG(pr.rating) AS average_rating
FROM properties p
LEFT JOIN property_reviews pr ON pr.property_id = p.id
WHERE 1=1`

const searchPropertiesGroupBy = `
GROUP BY p.id`

const searchPropertiesOrderLimit = `
ORDER BY p.cost_per_night ASC, p.id ASC
LIMIT ?`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

const getAllReservationsSQL = `
SELECT
  r.id,
  r.guest_id,
  r.property_id,
  r.start_date,
  r.end_date,` + propertyColumns + `,
  AVG(pr.rating) AS average_rating
FROM reservations r
JOIN properties p ON p.id = r.property_id
LEFT JOIN property_reviews pr ON pr.property_id = p.id
WHERE r.guest_id = ?
GROUP BY r.id, p.id
ORDER BY r.start_date ASC, r.id ASC
LIMIT ?
`

const insertReservationSQL = `
INSERT INTO reservations (guest_id, property_id, start_date, end_date)
VALUES (?, ?, ?, ?)
`

const getReservationSQL = `
SELECT id, guest_id, property_id, start_date, end_date
FROM reservations
WHERE id = ?
`
