package anilist

const viewerQuery = `query {
  Viewer { id name }
}`

const userQuery = `query ($name: String) {
  User(name: $name) { id name }
}`

const idsQuery = `query ($userId: Int, $type: MediaType, $chunk: Int, $perChunk: Int) {
  MediaListCollection(userId: $userId, type: $type, chunk: $chunk, perChunk: $perChunk) {
    hasNextChunk
    lists {
      entries { media { id } }
    }
  }
}`

const listQuery = `query ($userId: Int, $type: MediaType, $chunk: Int, $perChunk: Int) {
  MediaListCollection(userId: $userId, type: $type, chunk: $chunk, perChunk: $perChunk) {
    hasNextChunk
    lists {
      entries {
        status
        score(format: POINT_10)
        progress
        progressVolumes
        repeat
        notes
        private
        customLists(asArray: true)
        startedAt { year month day }
        completedAt { year month day }
        media {
          id
          idMal
          type
          episodes
          chapters
          volumes
          title { romaji }
        }
      }
    }
  }
}`

const saveEntryMutation = `mutation ($mediaId: Int, $status: MediaListStatus, $score: Float, $progress: Int, $progressVolumes: Int, $notes: String, $private: Boolean, $startedAt: FuzzyDateInput, $completedAt: FuzzyDateInput, $customLists: [String]) {
  SaveMediaListEntry(mediaId: $mediaId, status: $status, score: $score, progress: $progress, progressVolumes: $progressVolumes, notes: $notes, private: $private, startedAt: $startedAt, completedAt: $completedAt, customLists: $customLists) {
    id
    status
  }
}`

const listOptionsQuery = `query {
  Viewer {
    mediaListOptions {
      animeList { customLists }
      mangaList { customLists }
    }
  }
}`

const updateAnimeListsMutation = `mutation ($customLists: [String]) {
  UpdateUser(animeListOptions: { customLists: $customLists }) { id }
}`

const updateMangaListsMutation = `mutation ($customLists: [String]) {
  UpdateUser(mangaListOptions: { customLists: $customLists }) { id }
}`
